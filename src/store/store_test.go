package store

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func valid() Submission {
	return Submission{Name: "Mina", Phone: "010-1234-5678", Depth: 12.345, Character: "longfin"}
}

func TestValidateNormalises(t *testing.T) {
	sub := valid()
	sub.Name = "   " + strings.Repeat("가", 25) + "  "
	sub.Phone = " 010-1234-5678 "
	got, err := Validate(sub)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if n := len([]rune(got.Name)); n != MaxNameLength {
		t.Fatalf("name length = %d, want %d", n, MaxNameLength)
	}
	if got.Phone != "010-1234-5678" {
		t.Fatalf("phone = %q", got.Phone)
	}
	if got.Depth != 12.35 {
		t.Fatalf("depth = %v, want 12.35", got.Depth)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Submission)
		want error
	}{
		{"blank name", func(s *Submission) { s.Name = "   " }, ErrNameRequired},
		{"empty phone", func(s *Submission) { s.Phone = "" }, ErrPhoneInvalid},
		{"letters in phone", func(s *Submission) { s.Phone = "010-abc" }, ErrPhoneInvalid},
		{"zero depth", func(s *Submission) { s.Depth = 0 }, ErrDepthInvalid},
		{"negative depth", func(s *Submission) { s.Depth = -3 }, ErrDepthInvalid},
		{"too deep", func(s *Submission) { s.Depth = 10000 }, ErrDepthInvalid},
		{"nan depth", func(s *Submission) { s.Depth = math.NaN() }, ErrDepthInvalid},
		{"inf depth", func(s *Submission) { s.Depth = math.Inf(1) }, ErrDepthInvalid},
		{"unknown character", func(s *Submission) { s.Character = "midfin" }, ErrCharacterInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := valid()
			tc.edit(&sub)
			if _, err := Validate(sub); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if !IsValidation(tc.want) {
				t.Fatalf("IsValidation(%v) = false", tc.want)
			}
		})
	}
}

func TestValidateAcceptsMaxDepth(t *testing.T) {
	sub := valid()
	sub.Depth = MaxDepth
	if _, err := Validate(sub); err != nil {
		t.Fatalf("Validate(%v): %v", MaxDepth, err)
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone(" 010 1234.5678 "); got != "01012345678" {
		t.Fatalf("NormalizePhone = %q", got)
	}
	if got := NormalizePhone("+82-10-1234"); got != "82-10-1234" {
		t.Fatalf("NormalizePhone = %q", got)
	}
}

func TestClampLimit(t *testing.T) {
	for in, want := range map[int]int{-5: 1, 0: 1, 1: 1, 10: 10, 50: 50, 51: 50, 1000: 50} {
		if got := ClampLimit(in); got != want {
			t.Errorf("ClampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func newTestMemory() *Memory {
	m := NewMemory()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	m.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return m
}

func TestMemoryTopOrdering(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()
	for _, s := range []Submission{
		{Name: "a", Phone: "1", Depth: 10, Character: "shortfin"},
		{Name: "b", Phone: "2", Depth: 30, Character: "longfin"},
		{Name: "c", Phone: "3", Depth: 10, Character: "longfin"},
		{Name: "d", Phone: "4", Depth: 20, Character: "shortfin"},
	} {
		if _, err := m.Insert(ctx, s); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	top, err := m.Top(ctx, 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	var names []string
	for _, e := range top {
		names = append(names, e.Name)
	}
	if got := strings.Join(names, ""); got != "bdac" {
		t.Fatalf("order = %q, want bdac", got)
	}

	top, _ = m.Top(ctx, 0)
	if len(top) != 1 {
		t.Fatalf("Top(0) returned %d entries, want 1", len(top))
	}
}

func TestMemoryRejectsInvalid(t *testing.T) {
	m := newTestMemory()
	if _, err := m.Insert(context.Background(), Submission{Name: "x", Phone: "1", Depth: 0, Character: "longfin"}); !errors.Is(err, ErrDepthInvalid) {
		t.Fatalf("err = %v", err)
	}
	if _, total, _ := m.List(context.Background(), 1, 20); total != 0 {
		t.Fatalf("invalid submission was stored")
	}
}

func TestMemoryListAndDelete(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()
	var ids []string
	for i := 1; i <= 5; i++ {
		s, err := m.Insert(ctx, Submission{Name: "n", Phone: "1", Depth: float64(i), Character: "shortfin"})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		ids = append(ids, s.ID)
	}

	items, total, err := m.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 || len(items) != 2 {
		t.Fatalf("total=%d len=%d", total, len(items))
	}
	if items[0].ID != ids[2] || items[1].ID != ids[1] {
		t.Fatalf("page 2 is not newest-first")
	}

	if err := m.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete(ctx, ids[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete err = %v", err)
	}
	if _, total, _ := m.List(ctx, 1, 20); total != 4 {
		t.Fatalf("total after delete = %d", total)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "sqlite"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	s, err := Open(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Open default: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Fatalf("default driver is %T", s)
	}
}
