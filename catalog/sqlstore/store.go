package sqlstore

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-gem-catalog/catalog"
	"github.com/goliatone/go-gem-catalog/pagination"
	"github.com/goliatone/go-gem-catalog/query"
)

var _ catalog.Service = (*Store)(nil)

// Store is a catalog.Service that pushes filtering, ordering and windowing
// down to a SQL database. It holds no in-process locks; the count and the
// page select of a List call are independent statements.
type Store struct {
	db       *bun.DB
	logger   *slog.Logger
	pageOpts pagination.Options
	now      func() time.Time

	// collate is appended to ORDER BY columns so text sorts byte-wise on
	// every dialect.
	collate string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPaginationOptions sets how list envelopes are reported.
func WithPaginationOptions(opts pagination.Options) Option {
	return func(s *Store) {
		s.pageOpts = opts
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Store over an open bun database. The schema must exist; see
// EnsureSchema.
func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pageOpts.Logger == nil {
		s.pageOpts.Logger = s.logger
	}
	if db.Dialect().Name() == dialect.PG {
		s.collate = ` COLLATE "C"`
	}
	return s
}

// DB exposes the underlying database handle.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the gems table and its indexes when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*gemRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return catalog.StoreError(err, "create gems table")
	}

	for _, col := range []string{"color_norm", "category_norm", "formula_norm", "name"} {
		_, err := s.db.NewCreateIndex().
			Model((*gemRow)(nil)).
			Index("gems_" + col + "_idx").
			Column(col).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return catalog.StoreError(err, "create gems index")
		}
	}
	return nil
}

// Seed inserts gems in order. IDs are kept.
func (s *Store) Seed(ctx context.Context, gems []catalog.Gem) error {
	if len(gems) == 0 {
		return nil
	}

	now := s.now()
	rows := make([]gemRow, len(gems))
	for i, g := range gems {
		rows[i] = *newRow(g, now)
	}

	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return catalog.StoreError(err, "seed gems")
	}
	return nil
}

// ImportIfEmpty copies every record of source into an empty table. It returns
// the number of imported records; a populated table is left untouched.
func (s *Store) ImportIfEmpty(ctx context.Context, source catalog.DataSource) (int, error) {
	n, err := s.db.NewSelect().Model((*gemRow)(nil)).Count(ctx)
	if err != nil {
		return 0, catalog.StoreError(err, "count gems")
	}
	if n > 0 {
		return 0, nil
	}

	gems, err := source.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.Seed(ctx, gems); err != nil {
		return 0, err
	}

	s.logger.Info("gem catalog imported", "source", source.Kind(), "count", len(gems))
	return len(gems), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterFields fixes the order equality predicates are rendered in.
var filterFields = []query.Field{query.FieldColor, query.FieldCategory, query.FieldChemicalFormula}

func applyFilter(spec query.FilterSpec) func(*bun.SelectQuery) *bun.SelectQuery {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if term, ok := spec.SearchTerm(); ok && term != "" {
			pattern := "%" + likeEscaper.Replace(query.NormalizeText(term)) + "%"
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				for _, f := range query.SearchFields {
					q = q.WhereOr(`? LIKE ? ESCAPE '\'`, bun.Ident(normColumn[f]), pattern)
				}
				return q
			})
		}

		eq := spec.EqualityFilters()
		for _, f := range filterFields {
			if want, ok := eq[f]; ok {
				q = q.Where("? = ?", bun.Ident(normColumn[f]), query.NormalizeText(want))
			}
		}
		return q
	}
}

func (s *Store) applyOrder(opts []query.SortOption) func(*bun.SelectQuery) *bun.SelectQuery {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, o := range opts {
			dir := " ASC"
			if o.Direction == query.Descending {
				dir = " DESC"
			}
			q = q.OrderExpr("?"+s.collate+dir, bun.Ident(column[o.Field]))
		}
		return q.OrderExpr("? ASC", bun.Ident("seq"))
	}
}

// Count returns the number of records matching spec.
func (s *Store) Count(ctx context.Context, spec query.FilterSpec) (int, error) {
	n, err := s.db.NewSelect().
		Model((*gemRow)(nil)).
		Apply(applyFilter(spec)).
		Count(ctx)
	if err != nil {
		return 0, catalog.StoreError(err, "count gems")
	}
	return n, nil
}

// FetchPage returns the records matching spec in order, skipping offset and
// returning at most limit.
func (s *Store) FetchPage(ctx context.Context, spec query.FilterSpec, order []query.SortOption, offset, limit int) ([]catalog.Gem, error) {
	var rows []gemRow
	err := s.db.NewSelect().
		Model(&rows).
		Apply(applyFilter(spec), s.applyOrder(order)).
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, catalog.StoreError(err, "fetch gems")
	}
	return toGems(rows), nil
}

// fetcher binds a filter and an order to the store for one List call.
func (s *Store) fetcher(spec query.FilterSpec, order []query.SortOption) pagination.PageFetcher[catalog.Gem] {
	return pagination.FetcherFuncs[catalog.Gem]{
		CountFn: func(ctx context.Context) (int, error) {
			return s.Count(ctx, spec)
		},
		FetchFn: func(ctx context.Context, offset, limit int) ([]catalog.Gem, error) {
			return s.FetchPage(ctx, spec, order, offset, limit)
		},
	}
}

// List returns one page of the rows matching params.
func (s *Store) List(ctx context.Context, params query.Params, page pagination.Request) (pagination.Envelope[catalog.Gem], error) {
	spec, warnings := query.NormalizeWithWarnings(params)
	for _, w := range warnings {
		s.logger.Debug("ignored filter clause", "kind", w.Kind, "clause", w.Clause)
	}

	return pagination.PaginateStore(ctx, s.fetcher(spec, query.OrderFor(spec)), page, s.pageOpts)
}

func (s *Store) getRow(ctx context.Context, db bun.IDB, id uuid.UUID) (*gemRow, error) {
	row := new(gemRow)
	err := db.NewSelect().
		Model(row).
		Where("? = ?", bun.Ident("id"), id.String()).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, catalog.StoreError(err, "get gem")
	}
	return row, nil
}

// Get retrieves a single gem by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (catalog.Gem, error) {
	row, err := s.getRow(ctx, s.db, id)
	if err != nil {
		return catalog.Gem{}, err
	}
	return row.toGem(), nil
}

// Create inserts a new gem.
func (s *Store) Create(ctx context.Context, req catalog.CreateGemRequest) (catalog.Gem, error) {
	if err := req.Validate(); err != nil {
		return catalog.Gem{}, err
	}

	gem := req.ToGem()
	if _, err := s.db.NewInsert().Model(newRow(gem, s.now())).Exec(ctx); err != nil {
		return catalog.Gem{}, catalog.StoreError(err, "insert gem")
	}

	s.logger.Info("gem created", "id", gem.ID, "name", gem.Name)
	return gem, nil
}

// Update replaces the fields of an existing gem, keeping its image.
func (s *Store) Update(ctx context.Context, id uuid.UUID, req catalog.CreateGemRequest) (catalog.Gem, error) {
	if err := req.Validate(); err != nil {
		return catalog.Gem{}, err
	}
	return s.replace(ctx, id, func(existing catalog.Gem) catalog.Gem {
		return req.ApplyTo(existing)
	})
}

// UpdateImage sets the image path of an existing gem.
func (s *Store) UpdateImage(ctx context.Context, id uuid.UUID, image string) (catalog.Gem, error) {
	return s.replace(ctx, id, func(existing catalog.Gem) catalog.Gem {
		existing.Image = image
		return existing
	})
}

func (s *Store) replace(ctx context.Context, id uuid.UUID, mutate func(catalog.Gem) catalog.Gem) (catalog.Gem, error) {
	var updated catalog.Gem
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row, err := s.getRow(ctx, tx, id)
		if err != nil {
			return err
		}

		updated = mutate(row.toGem())
		row.assign(updated, s.now())

		if _, err := tx.NewUpdate().Model(row).WherePK().Exec(ctx); err != nil {
			return catalog.StoreError(err, "update gem")
		}
		return nil
	})
	if err != nil {
		return catalog.Gem{}, catalog.StoreError(err, "update gem")
	}

	s.logger.Info("gem updated", "id", id)
	return updated, nil
}

// Delete removes a gem.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.NewDelete().
		Model((*gemRow)(nil)).
		Where("? = ?", bun.Ident("id"), id.String()).
		Exec(ctx)
	if err != nil {
		return catalog.StoreError(err, "delete gem")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return catalog.StoreError(err, "delete gem")
	}
	if n == 0 {
		return catalog.ErrNotFound
	}

	s.logger.Info("gem deleted", "id", id)
	return nil
}

// distinct sorts in process so the order matches the in-memory backend on
// every dialect.
func (s *Store) distinct(ctx context.Context, field catalog.MetadataField) ([]string, error) {
	col := column[field]

	var values []string
	err := s.db.NewSelect().
		Model((*gemRow)(nil)).
		Distinct().
		Column(col).
		Where("? <> ''", bun.Ident(col)).
		Scan(ctx, &values)
	if err != nil {
		return nil, catalog.StoreError(err, "list distinct "+col)
	}

	if values == nil {
		values = []string{}
	}
	sort.Strings(values)
	return values, nil
}

// Colors returns the distinct gem colors.
func (s *Store) Colors(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, query.FieldColor)
}

// Categories returns the distinct gem categories.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, query.FieldCategory)
}

// Formulas returns the distinct chemical formulas.
func (s *Store) Formulas(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, query.FieldChemicalFormula)
}

// Search returns up to catalog.SearchLimit gems whose name, description or
// category contains term, ordered by name.
func (s *Store) Search(ctx context.Context, term string) ([]catalog.Gem, error) {
	if err := catalog.ValidateSearchTerm(term); err != nil {
		return nil, err
	}
	return s.FetchPage(ctx, catalog.SearchSpec(term), catalog.SearchOrder, 0, catalog.SearchLimit)
}
