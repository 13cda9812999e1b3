package query

import (
	"reflect"
	"testing"
)

type testRecord struct {
	name, description, category, color, formula string
}

func (r testRecord) FieldValue(field Field) string {
	switch field {
	case FieldName:
		return r.name
	case FieldDescription:
		return r.description
	case FieldCategory:
		return r.category
	case FieldColor:
		return r.color
	case FieldChemicalFormula:
		return r.formula
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestNormalize_FilterExpression(t *testing.T) {
	tests := []struct {
		name         string
		params       Params
		wantName     string
		wantColor    string
		wantCategory string
		wantFormula  string
	}{
		{
			name:         "two clauses",
			params:       Params{Filter: String("color eq 'Blue' and category eq 'Quartz'")},
			wantName:     "<nil>",
			wantColor:    "Blue",
			wantCategory: "Quartz",
			wantFormula:  "<nil>",
		},
		{
			name:         "distinct fields are additive",
			params:       Params{Name: String("foo"), Filter: String("color eq 'Blue'")},
			wantName:     "foo",
			wantColor:    "Blue",
			wantCategory: "<nil>",
			wantFormula:  "<nil>",
		},
		{
			name:         "same field is overwritten",
			params:       Params{Name: String("foo"), Filter: String("name eq 'Bar'")},
			wantName:     "Bar",
			wantColor:    "<nil>",
			wantCategory: "<nil>",
			wantFormula:  "<nil>",
		},
		{
			name:         "last clause wins",
			params:       Params{Filter: String("color eq 'Red' and color eq 'Green'")},
			wantName:     "<nil>",
			wantColor:    "Green",
			wantCategory: "<nil>",
			wantFormula:  "<nil>",
		},
		{
			name:         "value with spaces and double quotes",
			params:       Params{Filter: String(`name eq "Ojo de Tigre"`)},
			wantName:     "Ojo de Tigre",
			wantColor:    "<nil>",
			wantCategory: "<nil>",
			wantFormula:  "<nil>",
		},
		{
			name:         "unquoted value",
			params:       Params{Filter: String("chemical_formula eq SiO2")},
			wantName:     "<nil>",
			wantColor:    "<nil>",
			wantCategory: "<nil>",
			wantFormula:  "SiO2",
		},
		{
			name:         "only one layer of quotes stripped",
			params:       Params{Filter: String(`color eq "'Blue'"`)},
			wantName:     "<nil>",
			wantColor:    "'Blue'",
			wantCategory: "<nil>",
			wantFormula:  "<nil>",
		},
		{
			name:         "malformed and unknown clauses skipped",
			params:       Params{Filter: String("color Blue and weight eq 5 and category ne 'x' and category eq Mineral")},
			wantName:     "<nil>",
			wantColor:    "<nil>",
			wantCategory: "Mineral",
			wantFormula:  "<nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Normalize(tt.params)
			if got := deref(spec.Name); got != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, got)
			}
			if got := deref(spec.Color); got != tt.wantColor {
				t.Errorf("expected color %q, got %q", tt.wantColor, got)
			}
			if got := deref(spec.Category); got != tt.wantCategory {
				t.Errorf("expected category %q, got %q", tt.wantCategory, got)
			}
			if got := deref(spec.ChemicalFormula); got != tt.wantFormula {
				t.Errorf("expected chemical_formula %q, got %q", tt.wantFormula, got)
			}
		})
	}
}

func TestNormalizeWithWarnings(t *testing.T) {
	params := Params{Filter: String("color Blue and weight eq 5 and category eq Mineral")}

	spec, warnings := NormalizeWithWarnings(params)

	want := []Warning{
		{Kind: WarningMalformedClause, Clause: "color Blue"},
		{Kind: WarningUnknownField, Clause: "weight eq 5"},
	}
	if !reflect.DeepEqual(warnings, want) {
		t.Errorf("expected warnings %+v, got %+v", want, warnings)
	}
	if !reflect.DeepEqual(spec, Normalize(params)) {
		t.Error("expected warnings variant to produce the same FilterSpec as Normalize")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []Params{
		{},
		{Search: String("rosa"), Name: String("Cuarzo")},
		{Filter: String("color eq 'Blue' and name eq Zafiro"), OrderBy: String("color desc")},
		{Name: String("foo"), Filter: String("name eq 'Bar' and junk")},
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once.Params())
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("expected normalize to be idempotent for %+v: %+v vs %+v", in, once, twice)
		}
	}
}

func TestFilterSpec_SearchTerm(t *testing.T) {
	tests := []struct {
		name   string
		spec   FilterSpec
		want   string
		wantOK bool
	}{
		{"search wins over name", FilterSpec{Search: String("amat"), Name: String("Rubí")}, "amat", true},
		{"name used when no search", FilterSpec{Name: String("Rubí")}, "Rubí", true},
		{"none", FilterSpec{Color: String("Rojo")}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.spec.SearchTerm()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}
}

func TestFilterSpec_IsEmpty(t *testing.T) {
	if !(FilterSpec{}).IsEmpty() {
		t.Error("expected zero FilterSpec to be empty")
	}
	if (FilterSpec{OrderBy: String("name")}).IsEmpty() {
		t.Error("expected FilterSpec with order_by to be non-empty")
	}
}

func TestFilterSpec_Matches(t *testing.T) {
	amethyst := testRecord{
		name:        "Amatista",
		description: "Protege contra la ebriedad",
		category:    "Cuarzo",
		color:       "Púrpura",
		formula:     "SiO2",
	}

	tests := []struct {
		name string
		spec FilterSpec
		want bool
	}{
		{"empty spec matches", FilterSpec{}, true},
		{"search in name is case insensitive", FilterSpec{Search: String("AMAT")}, true},
		{"search in description", FilterSpec{Search: String("ebriedad")}, true},
		{"search in category", FilterSpec{Search: String("cuar")}, true},
		{"search miss", FilterSpec{Search: String("diamante")}, false},
		{"name filter acts as search", FilterSpec{Name: String("tista")}, true},
		{"color equality folds accents", FilterSpec{Color: String("purpura")}, true},
		{"color equality is not substring", FilterSpec{Color: String("purp")}, false},
		{"formula equality", FilterSpec{ChemicalFormula: String("sio2")}, true},
		{"empty equality matches everything", FilterSpec{Category: String("")}, true},
		{"all filters must hold", FilterSpec{Color: String("Púrpura"), Category: String("Berilo")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.Matches(amethyst); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := map[string]string{
		"Rubí":          "rubi",
		"ÁÉÍÓÚÑ":        "aeioun",
		"Piedra Lunar":  "piedra lunar",
		"already plain": "already plain",
	}
	for in, want := range tests {
		if got := NormalizeText(in); got != want {
			t.Errorf("expected NormalizeText(%q) = %q, got %q", in, want, got)
		}
	}
}
