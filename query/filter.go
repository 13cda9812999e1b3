package query

import (
	"strings"
)

// Field identifies a filterable or sortable attribute of a catalog record.
type Field string

const (
	FieldName            Field = "name"
	FieldColor           Field = "color"
	FieldCategory        Field = "category"
	FieldChemicalFormula Field = "chemical_formula"
	FieldDescription     Field = "magical_description"
)

// Record is implemented by anything the in-memory executor can filter and sort.
type Record interface {
	FieldValue(field Field) string
}

// Params holds the raw query parameters of a list request. A nil pointer means
// the parameter was not supplied.
type Params struct {
	Search          *string `json:"$search,omitempty"`
	Filter          *string `json:"$filter,omitempty"`
	Name            *string `json:"name,omitempty"`
	Color           *string `json:"color,omitempty"`
	Category        *string `json:"category,omitempty"`
	ChemicalFormula *string `json:"chemical_formula,omitempty"`
	OrderBy         *string `json:"$orderby,omitempty"`
}

// FilterSpec is the canonical filter record produced by Normalize.
type FilterSpec struct {
	Search          *string `json:"search,omitempty"`
	Filter          *string `json:"filter,omitempty"`
	Name            *string `json:"name,omitempty"`
	Color           *string `json:"color,omitempty"`
	Category        *string `json:"category,omitempty"`
	ChemicalFormula *string `json:"chemical_formula,omitempty"`
	OrderBy         *string `json:"order_by,omitempty"`
}

// WarningKind classifies a clause dropped while parsing a filter expression.
type WarningKind string

const (
	WarningMalformedClause WarningKind = "malformed_clause"
	WarningUnknownField    WarningKind = "unknown_field"
)

// Warning describes a filter clause that was ignored.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Clause string      `json:"clause"`
}

const (
	clauseSeparator = " and "
	operatorEq      = "eq"
)

// String returns a pointer to s. Handy when building Params by hand.
func String(s string) *string {
	return &s
}

// Normalize builds a FilterSpec from raw parameters. Field parameters are
// copied first; a $filter expression is then parsed and overwrites the fields
// it names. Malformed clauses and unknown fields are dropped silently.
func Normalize(p Params) FilterSpec {
	spec, _ := NormalizeWithWarnings(p)
	return spec
}

// NormalizeWithWarnings behaves like Normalize and also reports the clauses it
// skipped. The returned FilterSpec is identical to the one Normalize returns.
func NormalizeWithWarnings(p Params) (FilterSpec, []Warning) {
	spec := FilterSpec{
		Search:          cloneString(p.Search),
		Filter:          cloneString(p.Filter),
		Name:            cloneString(p.Name),
		Color:           cloneString(p.Color),
		Category:        cloneString(p.Category),
		ChemicalFormula: cloneString(p.ChemicalFormula),
		OrderBy:         cloneString(p.OrderBy),
	}

	if spec.Filter == nil {
		return spec, nil
	}

	var warnings []Warning
	for _, clause := range strings.Split(*spec.Filter, clauseSeparator) {
		field, value, ok := parseClause(clause)
		if !ok {
			warnings = append(warnings, Warning{Kind: WarningMalformedClause, Clause: strings.TrimSpace(clause)})
			continue
		}

		v := value
		switch Field(field) {
		case FieldName:
			spec.Name = &v
		case FieldColor:
			spec.Color = &v
		case FieldCategory:
			spec.Category = &v
		case FieldChemicalFormula:
			spec.ChemicalFormula = &v
		default:
			warnings = append(warnings, Warning{Kind: WarningUnknownField, Clause: strings.TrimSpace(clause)})
		}
	}

	return spec, warnings
}

// parseClause splits "field eq value with spaces" into its field and value.
func parseClause(clause string) (string, string, bool) {
	parts := strings.Fields(clause)
	if len(parts) < 3 || parts[1] != operatorEq {
		return "", "", false
	}
	return parts[0], stripQuotes(strings.Join(parts[2:], " ")), true
}

// stripQuotes removes one layer of matching single or double quotes.
func stripQuotes(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '\'' || first == '"') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// SearchTerm resolves the free-text term: $search wins over the name filter.
func (f FilterSpec) SearchTerm() (string, bool) {
	if f.Search != nil {
		return *f.Search, true
	}
	if f.Name != nil {
		return *f.Name, true
	}
	return "", false
}

// IsEmpty reports whether no parameter was supplied at all.
func (f FilterSpec) IsEmpty() bool {
	return f.Search == nil &&
		f.Filter == nil &&
		f.Name == nil &&
		f.Color == nil &&
		f.Category == nil &&
		f.ChemicalFormula == nil &&
		f.OrderBy == nil
}

// Params converts the spec back into request parameters. Normalizing the
// result yields the same FilterSpec.
func (f FilterSpec) Params() Params {
	return Params{
		Search:          cloneString(f.Search),
		Filter:          cloneString(f.Filter),
		Name:            cloneString(f.Name),
		Color:           cloneString(f.Color),
		Category:        cloneString(f.Category),
		ChemicalFormula: cloneString(f.ChemicalFormula),
		OrderBy:         cloneString(f.OrderBy),
	}
}

// EqualityFilters returns the active equality filters keyed by field. Empty
// values are skipped because they match every record.
func (f FilterSpec) EqualityFilters() map[Field]string {
	out := make(map[Field]string, 3)
	if f.Color != nil && *f.Color != "" {
		out[FieldColor] = *f.Color
	}
	if f.Category != nil && *f.Category != "" {
		out[FieldCategory] = *f.Category
	}
	if f.ChemicalFormula != nil && *f.ChemicalFormula != "" {
		out[FieldChemicalFormula] = *f.ChemicalFormula
	}
	return out
}

// SearchFields lists the attributes a search term is matched against.
var SearchFields = []Field{FieldName, FieldDescription, FieldCategory}

// Matches evaluates the spec against a record in memory.
func (f FilterSpec) Matches(r Record) bool {
	if term, ok := f.SearchTerm(); ok && term != "" {
		found := false
		for _, field := range SearchFields {
			if ContainsNormalized(r.FieldValue(field), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for field, want := range f.EqualityFilters() {
		if !EqualNormalized(r.FieldValue(field), want) {
			return false
		}
	}
	return true
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
