package game

import (
	"errors"
	"testing"
)

func TestRegistrationValidate(t *testing.T) {
	cases := []struct {
		name string
		in   Registration
		want error
	}{
		{"ok", Registration{Name: " Mina ", Phone: "010-1234-5678", Consent: true}, nil},
		{"blank name", Registration{Name: "  ", Phone: "010", Consent: true}, ErrNameRequired},
		{"blank phone", Registration{Name: "Mina", Phone: "  ", Consent: true}, ErrPhoneRequired},
		{"phone with no digits", Registration{Name: "Mina", Phone: "call me", Consent: true}, ErrPhoneRequired},
		{"no consent", Registration{Name: "Mina", Phone: "010", Consent: false}, ErrConsentRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.in.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRegistrationNormalizes(t *testing.T) {
	r, err := Registration{Name: "  Diver Kim  ", Phone: "010 1234 5678", Consent: true}.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if r.Name != "Diver Kim" || r.Phone != "01012345678" {
		t.Fatalf("normalised = %+v", r)
	}

	sub := r.Submission(Result{Depth: 12.3456, Character: "shortfin"})
	if sub.Depth != 12.35 || sub.Phone != r.Phone || sub.Character != "shortfin" {
		t.Fatalf("submission = %+v", sub)
	}
}
