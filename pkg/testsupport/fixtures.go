package testsupport

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-gem-catalog/catalog"
)

//go:embed testdata/gems.json
var sampleGemsJSON []byte

// SampleGems returns a fresh copy of the sample catalog: sixteen gems with
// accented names, shared colors and shared categories, in storage order.
func SampleGems() []catalog.Gem {
	var gems []catalog.Gem
	if err := json.Unmarshal(sampleGemsJSON, &gems); err != nil {
		panic(fmt.Sprintf("testsupport: invalid embedded sample gems: %v", err))
	}
	return gems
}

// SampleGemsJSON returns the raw sample catalog.
func SampleGemsJSON() []byte {
	out := make([]byte, len(sampleGemsJSON))
	copy(out, sampleGemsJSON)
	return out
}

var fixtureNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

// NumberedGems returns n gems named "Gem 001".."Gem n" with IDs derived from
// their names, cycling through a few colors and categories.
func NumberedGems(n int) []catalog.Gem {
	colors := []string{"Rojo", "Azul", "Verde"}
	categories := []string{"Cuarzo", "Berilo"}

	gems := make([]catalog.Gem, n)
	for i := range gems {
		name := fmt.Sprintf("Gem %03d", i+1)
		gems[i] = catalog.Gem{
			ID:                 uuid.NewSHA1(fixtureNamespace, []byte(name)),
			Name:               name,
			Image:              catalog.ImagePath(name),
			MagicalDescription: fmt.Sprintf("Numbered gem %d", i+1),
			Category:           categories[i%len(categories)],
			Color:              colors[i%len(colors)],
			ChemicalFormula:    "SiO2",
		}
	}
	return gems
}

// NewRequest builds a valid create request.
func NewRequest(name, category, color, formula string) catalog.CreateGemRequest {
	return catalog.CreateGemRequest{
		Name:               name,
		MagicalDescription: "Descripción de " + name,
		Category:           category,
		Color:              color,
		ChemicalFormula:    formula,
	}
}

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// WriteDataFile writes gems as a catalog data file inside a test temp
// directory and returns its path.
func WriteDataFile(t *testing.T, gems []catalog.Gem) string {
	t.Helper()

	data, err := json.MarshalIndent(gems, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal gems: %v", err)
	}

	path := filepath.Join(t.TempDir(), "gems.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write data file %s: %v", path, err)
	}
	return path
}

// GemNames returns the names of gems in order.
func GemNames(gems []catalog.Gem) []string {
	out := make([]string, len(gems))
	for i, g := range gems {
		out[i] = g.Name
	}
	return out
}
