package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestJSONFileSource_MissingFile(t *testing.T) {
	src := NewJSONFileSource(filepath.Join(t.TempDir(), "nope.json"), quietLogger())

	if src.Available(context.Background()) {
		t.Error("expected missing file to be unavailable")
	}

	gems, err := src.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
	if gems == nil || len(gems) != 0 {
		t.Errorf("expected empty catalog, got %#v", gems)
	}
}

func TestJSONFileSource_RepairAndRecover(t *testing.T) {
	id := uuid.New()
	path := writeFile(t, t.TempDir(), "gems.json", `[
		{"id": "`+id.String()+`", "name": "Rubí", "image": "", "magical_description": "", "category": "Corindón", "color": "Rojo", "chemical_formula": "Al2O3"},
		{"name": "Jade", "image": 42, "color": "Verde"},
		{"name": "", "category": "Nada"},
		{"category": "Sin nombre", "image": false},
		"not an object",
		{"name": "Ámbar"}
	]`)

	gems, err := NewJSONFileSource(path, quietLogger()).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gems) != 3 {
		t.Fatalf("expected 3 gems, got %d: %+v", len(gems), gems)
	}

	ruby := gems[0]
	if ruby.ID != id || ruby.Image != "images/rubi.jpg" || ruby.MagicalDescription != DefaultDescription {
		t.Errorf("expected repaired ruby, got %+v", ruby)
	}

	jade := gems[1]
	if jade.Name != "Jade" || jade.Color != "Verde" || jade.Image != "images/jade.jpg" || jade.Category != DefaultCategory {
		t.Errorf("expected recovered jade, got %+v", jade)
	}
	if jade.ID == uuid.Nil {
		t.Error("expected recovered gem to get an ID")
	}

	if gems[2].Name != "Ámbar" || gems[2].ChemicalFormula != DefaultFormula {
		t.Errorf("expected ámbar with defaults, got %+v", gems[2])
	}
}

func TestJSONFileSource_ParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gems.json", `{"not": "an array"}`)

	_, err := NewJSONFileSource(path, quietLogger()).LoadAll(context.Background())
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !errors.HasCategory(err, errors.CategoryOperation) {
		t.Errorf("expected operation category, got %v", err)
	}
}

func TestJSONFileSource_PersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "gems.json")
	src := NewJSONFileSource(path, quietLogger())
	ctx := context.Background()

	in := []Gem{
		CreateGemRequest{Name: "Zafiro", Category: "Corindón", Color: "Azul", ChemicalFormula: "Al2O3"}.ToGem(),
		CreateGemRequest{Name: "Ópalo", Category: "Mineraloide", Color: "Multicolor", ChemicalFormula: "SiO2·nH2O", MagicalDescription: "Creatividad"}.ToGem(),
	}

	if err := src.Persist(ctx, in); err != nil {
		t.Fatalf("unexpected persist error: %v", err)
	}
	if !src.Available(ctx) {
		t.Error("expected file to exist after persist")
	}

	out, err := src.LoadAll(ctx)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(out) != 2 || out[0].ID != in[0].ID || out[1].MagicalDescription != "Creatividad" {
		t.Errorf("expected persisted gems back, got %+v", out)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected no temp files left behind, got %d entries", len(entries))
	}

	if err := src.Persist(ctx, nil); err != nil {
		t.Fatalf("unexpected persist error: %v", err)
	}
	out, _ = src.LoadAll(ctx)
	if len(out) != 0 {
		t.Errorf("expected empty catalog after persisting nil, got %d", len(out))
	}
}
