package game

import (
	"errors"

	"dive-server/src/store"
)

var (
	ErrNameRequired    = errors.New("name is required")
	ErrPhoneRequired   = errors.New("phone is required")
	ErrConsentRequired = errors.New("consent to collect contact details is required")
)

// Registration is what a player enters before choosing a diver.
type Registration struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Consent bool   `json:"consent"`
}

// Normalize trims and bounds the name and strips the phone down to digits
// and hyphens.
func (r Registration) Normalize() Registration {
	r.Name = store.SanitizeName(r.Name)
	r.Phone = store.NormalizePhone(r.Phone)
	return r
}

// Validate normalises r and checks it. Anything but digits and hyphens is
// dropped from the phone, so a phone with no digits reads as missing.
func (r Registration) Validate() (Registration, error) {
	r = r.Normalize()
	if r.Name == "" {
		return r, ErrNameRequired
	}
	if r.Phone == "" {
		return r, ErrPhoneRequired
	}
	if !r.Consent {
		return r, ErrConsentRequired
	}
	return r, nil
}

// Submission builds the score payload for a finished run.
func (r Registration) Submission(result Result) store.Submission {
	return store.Submission{
		Name:      r.Name,
		Phone:     r.Phone,
		Depth:     store.RoundDepth(result.Depth),
		Character: result.Character,
	}
}
