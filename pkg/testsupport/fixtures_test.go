package testsupport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-gem-catalog/catalog"
)

func TestSampleGems(t *testing.T) {
	gems := SampleGems()
	if len(gems) != 16 {
		t.Fatalf("expected 16 sample gems, got %d", len(gems))
	}

	seen := map[uuid.UUID]bool{}
	for _, g := range gems {
		if g.ID == uuid.Nil || seen[g.ID] {
			t.Errorf("expected unique non-nil IDs, got %v for %s", g.ID, g.Name)
		}
		seen[g.ID] = true
	}

	gems[0].Name = "mutated"
	if SampleGems()[0].Name == "mutated" {
		t.Error("expected SampleGems to return a fresh copy")
	}
}

func TestNumberedGems(t *testing.T) {
	a := NumberedGems(25)
	b := NumberedGems(25)

	if len(a) != 25 {
		t.Fatalf("expected 25 gems, got %d", len(a))
	}
	if a[0].Name != "Gem 001" || a[24].Name != "Gem 025" {
		t.Errorf("unexpected names %q .. %q", a[0].Name, a[24].Name)
	}
	if a[3].ID != b[3].ID {
		t.Error("expected IDs to be deterministic")
	}
	if err := NewRequest(a[0].Name, a[0].Category, a[0].Color, a[0].ChemicalFormula).Validate(); err != nil {
		t.Errorf("expected fixture request to be valid, got %v", err)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	var gems []catalog.Gem
	LoadFixtureJSON(t, filepath.Join("testdata", "gems.json"), &gems)

	if len(gems) != len(SampleGems()) {
		t.Errorf("expected fixture file to match the embedded sample, got %d gems", len(gems))
	}
}

func TestWriteDataFile(t *testing.T) {
	path := WriteDataFile(t, NumberedGems(3))

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected data file to exist: %v", err)
	}

	gems, err := catalog.NewJSONFileSource(path, nil).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if got := GemNames(gems); len(got) != 3 || got[2] != "Gem 003" {
		t.Errorf("unexpected gems %v", got)
	}
}

func TestMemorySource(t *testing.T) {
	ctx := context.Background()
	src := NewMemorySource(NumberedGems(2))

	gems, err := src.LoadAll(ctx)
	if err != nil || len(gems) != 2 {
		t.Fatalf("expected 2 gems, got %d (%v)", len(gems), err)
	}

	boom := errors.New("disk full")
	src.SetPersistErr(boom)
	if err := src.Persist(ctx, nil); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}
	if len(src.Persisted()) != 2 {
		t.Error("expected failed persist to keep the previous set")
	}

	src.SetPersistErr(nil)
	if err := src.Persist(ctx, gems[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if load, persist := src.Calls(); load != 1 || persist != 2 {
		t.Errorf("expected 1 load and 2 persists, got %d and %d", load, persist)
	}
	if len(src.Persisted()) != 1 {
		t.Errorf("expected 1 persisted gem, got %d", len(src.Persisted()))
	}
}
