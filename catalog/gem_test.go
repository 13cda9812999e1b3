package catalog

import (
	"reflect"
	"strings"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

func TestImageFilename(t *testing.T) {
	tests := map[string]string{
		"Ágata Azul":       "agata-azul",
		"Ojo de Tigre":     "ojo-de-tigre",
		"Piedra del Señor": "piedra-del-senor",
		"cuarzo":           "cuarzo",
	}
	for in, want := range tests {
		if got := ImageFilename(in); got != want {
			t.Errorf("expected ImageFilename(%q) = %q, got %q", in, want, got)
		}
	}
	if got := ImagePath("Ágata Azul"); got != "images/agata-azul.jpg" {
		t.Errorf("expected images/agata-azul.jpg, got %q", got)
	}
}

func TestGem_Repair(t *testing.T) {
	g := Gem{Name: "Jade", Image: "images/.jpg"}
	if !g.Repair() {
		t.Fatal("expected named gem to be kept")
	}

	if g.ID == uuid.Nil {
		t.Error("expected an ID to be assigned")
	}
	if g.Image != "images/jade.jpg" {
		t.Errorf("expected derived image, got %q", g.Image)
	}
	if g.MagicalDescription != DefaultDescription || g.Category != DefaultCategory ||
		g.Color != DefaultColor || g.ChemicalFormula != DefaultFormula {
		t.Errorf("expected defaults to be filled, got %+v", g)
	}

	id := uuid.New()
	kept := Gem{ID: id, Name: "Ónix", Image: "custom.png", Category: "Calcedonia"}
	kept.Repair()
	if kept.ID != id || kept.Image != "custom.png" || kept.Category != "Calcedonia" {
		t.Errorf("expected existing values to be kept, got %+v", kept)
	}

	nameless := Gem{Name: "   "}
	if nameless.Repair() {
		t.Error("expected gem without a name to be dropped")
	}
}

func TestCreateGemRequest_Validate(t *testing.T) {
	valid := CreateGemRequest{
		Name:            "Amatista",
		Category:        "Cuarzo",
		Color:           "Púrpura",
		ChemicalFormula: "SiO2",
	}

	tests := []struct {
		name       string
		mutate     func(*CreateGemRequest)
		wantFields []string
	}{
		{"valid", func(*CreateGemRequest) {}, nil},
		{"description optional", func(r *CreateGemRequest) { r.MagicalDescription = "" }, nil},
		{"missing name", func(r *CreateGemRequest) { r.Name = "" }, []string{"name"}},
		{"name too long", func(r *CreateGemRequest) { r.Name = strings.Repeat("á", MaxNameLength+1) }, []string{"name"}},
		{"name at limit", func(r *CreateGemRequest) { r.Name = strings.Repeat("á", MaxNameLength) }, nil},
		{"several missing", func(r *CreateGemRequest) { r.Color, r.ChemicalFormula = "", "" }, []string{"chemical_formula", "color"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()

			if tt.wantFields == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}

			fieldErrs, ok := errors.GetValidationErrors(err)
			if !ok {
				t.Fatalf("expected field errors in %v", err)
			}
			var got []string
			for _, fe := range fieldErrs {
				got = append(got, fe.Field)
			}
			if !sameElements(got, tt.wantFields) {
				t.Errorf("expected fields %v, got %v", tt.wantFields, got)
			}
		})
	}
}

func sameElements(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]int{}
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}

func TestCreateGemRequest_ToGemAndApply(t *testing.T) {
	req := CreateGemRequest{
		Name:               "Piedra Lunar",
		MagicalDescription: "Intuición",
		Category:           "Feldespato",
		Color:              "Blanco",
		ChemicalFormula:    "KAlSi3O8",
	}

	g := req.ToGem()
	if g.ID == uuid.Nil {
		t.Error("expected new ID")
	}
	if g.Image != "images/piedra-lunar.jpg" {
		t.Errorf("expected derived image, got %q", g.Image)
	}

	updated := CreateGemRequest{Name: "Selenita", Category: "Yeso", Color: "Blanco", ChemicalFormula: "CaSO4"}.ApplyTo(g)
	if updated.ID != g.ID || updated.Image != g.Image {
		t.Errorf("expected ID and image to be kept, got %+v", updated)
	}
	if updated.Name != "Selenita" || updated.MagicalDescription != "" {
		t.Errorf("expected attributes to be replaced, got %+v", updated)
	}
}

func TestDistinctValues(t *testing.T) {
	gems := []Gem{
		{Color: "Rojo", Category: "Corindón"},
		{Color: "Azul", Category: "Corindón"},
		{Color: "Rojo", Category: ""},
		{Color: "", Category: "Berilo"},
	}

	if got, want := DistinctValues(gems, "color"), []string{"Azul", "Rojo"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got, want := DistinctValues(gems, "category"), []string{"Berilo", "Corindón"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := DistinctValues(nil, "color"); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestErrors(t *testing.T) {
	if !IsNotFound(ErrNotFound) {
		t.Error("expected ErrNotFound to be detected")
	}
	if !errors.HasCategory(ErrNotFound, errors.CategoryNotFound) {
		t.Error("expected not_found category")
	}

	if _, err := ParseID("not-a-uuid"); !errors.HasCategory(err, errors.CategoryBadInput) {
		t.Errorf("expected bad_input for invalid id, got %v", err)
	}

	cause := errors.New("connection reset", errors.CategoryInternal)
	wrapped := StoreError(errors.Join(cause), "count gems")
	if !errors.IsRetryableError(wrapped) {
		t.Errorf("expected retryable store error, got %T", wrapped)
	}
	if StoreError(ErrNotFound, "get") != ErrNotFound {
		t.Error("expected not-found to pass through StoreError")
	}
	if StoreError(nil, "noop") != nil {
		t.Error("expected nil for nil error")
	}

	if err := ValidateSearchTerm("  "); !errors.Is(err, ErrEmptySearch) {
		t.Errorf("expected ErrEmptySearch, got %v", err)
	}
}
