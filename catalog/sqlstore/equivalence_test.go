package sqlstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-gem-catalog/catalog"
	"github.com/goliatone/go-gem-catalog/catalog/memory"
	"github.com/goliatone/go-gem-catalog/pagination"
	"github.com/goliatone/go-gem-catalog/pkg/testsupport"
	"github.com/goliatone/go-gem-catalog/query"
)

// walk follows next cursors from the first page to the last, then previous
// cursors back to the start, and returns every envelope visited.
func walk(t *testing.T, svc catalog.Service, params query.Params, limit int) []pagination.Envelope[catalog.Gem] {
	t.Helper()
	ctx := context.Background()

	var pages []pagination.Envelope[catalog.Gem]
	req := pagination.Request{Limit: limit}
	for i := 0; i < 50; i++ {
		env, err := svc.List(ctx, params, req)
		require.NoError(t, err)
		pages = append(pages, env)
		if env.Pagination.NextCursor == nil {
			break
		}
		req.Cursor = *env.Pagination.NextCursor
	}

	for i := 0; i < 50; i++ {
		last := pages[len(pages)-1]
		if last.Pagination.PreviousCursor == nil {
			break
		}
		env, err := svc.List(ctx, params, pagination.Request{Limit: limit, Cursor: *last.Pagination.PreviousCursor})
		require.NoError(t, err)
		pages = append(pages, env)
	}
	return pages
}

func TestBackendsAgree(t *testing.T) {
	gems := append(testsupport.SampleGems(), testsupport.NumberedGems(12)...)
	mem := memory.New(testsupport.NewMemorySource(gems), memory.WithLogger(quietLogger()))
	sql := openSQLite(t, gems)

	paramSets := map[string]query.Params{
		"all":               {},
		"by color":          {Color: query.String("azul")},
		"by formula desc":   {ChemicalFormula: query.String("sio2"), OrderBy: query.String("name desc")},
		"search":            {Search: query.String("cuarzo")},
		"name as search":    {Name: query.String("GEM 00")},
		"filter expression": {Filter: query.String("color eq 'Verde' and category eq cuarzo")},
		"multi-key":         {OrderBy: query.String("category asc, color desc, name asc")},
		"ties":              {OrderBy: query.String("chemical_formula")},
		"nothing matches":   {Color: query.String("transparente")},
		"bad order":         {OrderBy: query.String("Name DESC, , weight")},
	}
	limits := []int{1, 3, 7, 20, 100, 250}

	for name, params := range paramSets {
		for _, limit := range limits {
			memPages := walk(t, mem, params, limit)
			sqlPages := walk(t, sql, params, limit)

			require.Len(t, sqlPages, len(memPages), "%s limit=%d", name, limit)
			for i := range memPages {
				assert.Equal(t, memPages[i].Pagination, sqlPages[i].Pagination, "%s limit=%d page=%d", name, limit, i)
				assert.Equal(t, memPages[i].Data, sqlPages[i].Data, "%s limit=%d page=%d", name, limit, i)
			}
		}
	}

	ctx := context.Background()
	for _, term := range []string{"gem", "AZUL", "á", "sol", "zzz"} {
		a, err := mem.Search(ctx, term)
		require.NoError(t, err)
		b, err := sql.Search(ctx, term)
		require.NoError(t, err)
		assert.Equal(t, a, b, "search %q", term)
	}

	for _, pair := range []struct {
		name string
		mem  func(context.Context) ([]string, error)
		sql  func(context.Context) ([]string, error)
	}{
		{"colors", mem.Colors, sql.Colors},
		{"categories", mem.Categories, sql.Categories},
		{"formulas", mem.Formulas, sql.Formulas},
	} {
		a, err := pair.mem(ctx)
		require.NoError(t, err)
		b, err := pair.sql(ctx)
		require.NoError(t, err)
		assert.Equal(t, a, b, pair.name)
	}
}
