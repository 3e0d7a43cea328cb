package store

import (
	"context"
	"errors"
	"os"
	"testing"
)

// Runs against a real database when DIVE_TEST_DATABASE_URL is set.
func TestPostgresRoundTrip(t *testing.T) {
	dsn := os.Getenv("DIVE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("DIVE_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	p, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer p.Close(ctx)

	score, err := p.Insert(ctx, Submission{Name: "pg", Phone: "010-0000", Depth: 9998.999, Character: "shortfin"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	defer p.Delete(ctx, score.ID)
	if score.Depth != 9999 {
		t.Fatalf("depth = %v", score.Depth)
	}

	top, err := p.Top(ctx, 1)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 1 || top[0].Depth != 9999 {
		t.Fatalf("top = %+v", top)
	}
	if err := p.Delete(ctx, "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete invalid id err = %v", err)
	}
}
