package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-gem-catalog/pagination"
	"github.com/goliatone/go-gem-catalog/query"
)

// SearchLimit caps the number of results returned by Search.
const SearchLimit = 50

// Service is the catalog API implemented by every backend and by the cached
// decorator.
type Service interface {
	// List filters, sorts and pages through the catalog.
	List(ctx context.Context, params query.Params, page pagination.Request) (pagination.Envelope[Gem], error)
	// Get returns ErrNotFound when id does not exist.
	Get(ctx context.Context, id uuid.UUID) (Gem, error)
	Create(ctx context.Context, req CreateGemRequest) (Gem, error)
	// Update replaces the writable attributes and keeps the image.
	Update(ctx context.Context, id uuid.UUID, req CreateGemRequest) (Gem, error)
	UpdateImage(ctx context.Context, id uuid.UUID, image string) (Gem, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Colors(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
	Formulas(ctx context.Context) ([]string, error)

	// Search matches term against name, description and category. Results are
	// ordered by name and capped at SearchLimit.
	Search(ctx context.Context, term string) ([]Gem, error)
}

// MetadataField lists the attributes enumerated by the metadata endpoints.
type MetadataField = query.Field

// DistinctValues returns the sorted, non-empty, distinct values of field.
func DistinctValues(gems []Gem, field MetadataField) []string {
	seen := make(map[string]struct{}, len(gems))
	out := make([]string, 0)
	for _, g := range gems {
		v := g.FieldValue(field)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// SearchSpec builds the filter used by Search.
func SearchSpec(term string) query.FilterSpec {
	return query.FilterSpec{Search: &term}
}

// SearchOrder is the ordering of Search results.
var SearchOrder = []query.SortOption{{Field: query.FieldName, Direction: query.Ascending}}

// ValidateSearchTerm rejects empty and blank terms.
func ValidateSearchTerm(term string) error {
	if strings.TrimSpace(term) == "" {
		return ErrEmptySearch
	}
	return nil
}
