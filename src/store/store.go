package store

import (
	"context"
	"errors"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"dive-server/config"
)

// Table (and collection) name shared by every backend.
const Table = "dive_scores"

// Leaderboard limits.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Field limits.
const (
	MaxNameLength  = 20
	MaxPhoneLength = 20
	MaxDepth       = 9999
)

var (
	ErrNameRequired     = errors.New("name required")
	ErrPhoneInvalid     = errors.New("phone invalid")
	ErrDepthInvalid     = errors.New("depth invalid")
	ErrCharacterInvalid = errors.New("character invalid")
	ErrNotFound         = errors.New("score not found")
)

var phonePattern = regexp.MustCompile(`^[0-9-]+$`)
var phoneStrip = regexp.MustCompile(`[^0-9-]`)

// Submission is an unvalidated score as sent by a client.
type Submission struct {
	Name      string  `json:"name" jsonschema:"minLength=1,maxLength=20,required"`
	Phone     string  `json:"phone" jsonschema:"pattern=^[0-9-]+$,maxLength=20,required"`
	Depth     float64 `json:"depth" jsonschema:"minimum=0,maximum=9999,required"`
	Character string  `json:"character" jsonschema:"enum=shortfin,enum=longfin,required"`
}

// Score is a stored submission.
type Score struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Phone     string    `json:"phone" bson:"phone"`
	Depth     float64   `json:"depth" bson:"depth"`
	Character string    `json:"character" bson:"character"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Entry is a public leaderboard row. It never carries the phone number.
type Entry struct {
	Name      string    `json:"name" bson:"name"`
	Depth     float64   `json:"depth" bson:"depth"`
	Character string    `json:"character" bson:"character"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (s Score) Entry() Entry {
	return Entry{Name: s.Name, Depth: s.Depth, Character: s.Character, CreatedAt: s.CreatedAt}
}

// Store persists scores. Top is ordered by depth descending, then by
// creation time ascending so the earlier of two equal dives ranks first.
type Store interface {
	Insert(ctx context.Context, sub Submission) (Score, error)
	Top(ctx context.Context, limit int) ([]Entry, error)
	List(ctx context.Context, page, pageSize int) ([]Score, int64, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// SanitizeName trims the name and bounds it to MaxNameLength characters.
func SanitizeName(name string) string {
	return truncate(strings.TrimSpace(name), MaxNameLength)
}

// NormalizePhone trims the phone and drops everything but digits and hyphens.
func NormalizePhone(phone string) string {
	return phoneStrip.ReplaceAllString(strings.TrimSpace(phone), "")
}

// ValidPhone reports whether phone is non-empty and only digits and hyphens.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// Validate checks and normalises a submission before it is stored: the name
// and phone are trimmed and bounded, the depth is rounded to centimetres.
func Validate(sub Submission) (Submission, error) {
	name := SanitizeName(sub.Name)
	phone := truncate(strings.TrimSpace(sub.Phone), MaxPhoneLength)
	if name == "" {
		return Submission{}, ErrNameRequired
	}
	if !ValidPhone(phone) {
		return Submission{}, ErrPhoneInvalid
	}
	if math.IsNaN(sub.Depth) || math.IsInf(sub.Depth, 0) || sub.Depth <= 0 || sub.Depth > MaxDepth {
		return Submission{}, ErrDepthInvalid
	}
	if !slices.Contains(config.Characters, sub.Character) {
		return Submission{}, ErrCharacterInvalid
	}
	return Submission{
		Name:      name,
		Phone:     phone,
		Depth:     RoundDepth(sub.Depth),
		Character: sub.Character,
	}, nil
}

// RoundDepth rounds to two decimals.
func RoundDepth(depth float64) float64 {
	return math.Round(depth*100) / 100
}

// ClampLimit bounds a leaderboard limit to [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func pageBounds(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// IsValidation reports whether err is one of the submission validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrPhoneInvalid) ||
		errors.Is(err, ErrDepthInvalid) ||
		errors.Is(err, ErrCharacterInvalid)
}
