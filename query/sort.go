package query

import (
	"sort"
	"strings"
)

// SortField is a field accepted in an $orderby expression.
type SortField = Field

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortOption is one key of a multi-key sort.
type SortOption struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

func (o SortOption) String() string {
	return string(o.Field) + " " + string(o.Direction)
}

// sortableFields is matched case-sensitively.
var sortableFields = map[string]SortField{
	"name":             FieldName,
	"color":            FieldColor,
	"category":         FieldCategory,
	"chemical_formula": FieldChemicalFormula,
}

// DefaultOrder is used when an $orderby expression yields no usable option.
var DefaultOrder = []SortOption{{Field: FieldName, Direction: Ascending}}

// ParseOrderBy parses "name asc, color desc" into sort options. Segments with
// an unknown field are dropped. Only the exact token "desc" selects
// descending order.
func ParseOrderBy(raw string) []SortOption {
	var opts []SortOption
	for _, segment := range strings.Split(raw, ",") {
		tokens := strings.Fields(segment)
		if len(tokens) == 0 {
			continue
		}
		field, ok := sortableFields[tokens[0]]
		if !ok {
			continue
		}
		dir := Ascending
		if len(tokens) > 1 && tokens[1] == string(Descending) {
			dir = Descending
		}
		opts = append(opts, SortOption{Field: field, Direction: dir})
	}
	return opts
}

// EffectiveOrder returns opts, or DefaultOrder when opts is empty.
func EffectiveOrder(opts []SortOption) []SortOption {
	if len(opts) == 0 {
		out := make([]SortOption, len(DefaultOrder))
		copy(out, DefaultOrder)
		return out
	}
	return opts
}

// OrderFor resolves the sort options of a FilterSpec, falling back to
// DefaultOrder.
func OrderFor(f FilterSpec) []SortOption {
	if f.OrderBy == nil {
		return EffectiveOrder(nil)
	}
	return EffectiveOrder(ParseOrderBy(*f.OrderBy))
}

// FormatOrderBy renders options back into $orderby syntax.
func FormatOrderBy(opts []SortOption) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = o.String()
	}
	return strings.Join(parts, ", ")
}

// Sort orders items in place. Options are applied last to first with a stable
// sort, so opts[0] ends up as the primary key and equal items keep their
// original relative order. Values are compared byte-wise.
func Sort[T any](items []T, opts []SortOption, key func(T, SortField) string) {
	for i := len(opts) - 1; i >= 0; i-- {
		opt := opts[i]
		sort.SliceStable(items, func(a, b int) bool {
			ka, kb := key(items[a], opt.Field), key(items[b], opt.Field)
			if opt.Direction == Descending {
				return ka > kb
			}
			return ka < kb
		})
	}
}

// SortRecords is Sort for types implementing Record.
func SortRecords[T Record](items []T, opts []SortOption) {
	Sort(items, opts, func(item T, field SortField) string {
		return item.FieldValue(field)
	})
}
