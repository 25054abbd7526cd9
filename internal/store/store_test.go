package store

import (
	"context"
	"errors"
	"testing"

	"github.com/nvandessel/tilelens/internal/analysis"
	"github.com/nvandessel/tilelens/internal/models"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestContentHash(t *testing.T) {
	a := ContentHash("log", "review")
	b := ContentHash("log", "review")
	if a != b {
		t.Error("hash must be deterministic")
	}
	if a == ContentHash("log2", "review") {
		t.Error("different logs must hash differently")
	}
	// The separator keeps boundary shifts from colliding.
	if ContentHash("ab", "c") == ContentHash("a", "bc") {
		t.Error("boundary shift collided")
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	report := analysis.Report{
		Mistakes: []models.Mistake{{
			ID:       1,
			Round:    "East 1",
			Turn:     3,
			EVDiff:   -2.8,
			Category: models.CategoryPushFold,
			Hand:     []string{"1m", "2m"},
		}},
		Metadata: models.ReplayMetadata{OverallAccuracy: 90, TotalMistakes: 3},
	}

	hash := ContentHash("log", "review")
	if err := s.Save(ctx, hash, report); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get(ctx, hash)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Mistakes) != 1 || got.Mistakes[0].Round != "East 1" || got.Mistakes[0].EVDiff != -2.8 {
		t.Errorf("round-trip mismatch: %+v", got.Mistakes)
	}
	if got.Metadata.OverallAccuracy != 90 {
		t.Errorf("metadata mismatch: %+v", got.Metadata)
	}
}

func TestSave_Replaces(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	hash := ContentHash("log", "review")

	if err := s.Save(ctx, hash, analysis.Report{Metadata: models.ReplayMetadata{TotalMistakes: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, hash, analysis.Report{Metadata: models.ReplayMetadata{TotalMistakes: 2}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, hash)
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata.TotalMistakes != 2 {
		t.Errorf("total mistakes = %d, want the replacement", got.Metadata.TotalMistakes)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := openTest(t)
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
