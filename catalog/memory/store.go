package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-gem-catalog/catalog"
	"github.com/goliatone/go-gem-catalog/pagination"
	"github.com/goliatone/go-gem-catalog/query"
)

var _ catalog.Service = (*Store)(nil)

// Store keeps the whole catalog in process and persists every mutation
// through a DataSource.
//
// The record set and the loaded flag are guarded by separate locks. Readers
// share mu; writers hold it exclusively across the mutation and the persist
// call, so readers never observe a record set that failed to persist.
type Store struct {
	source   catalog.DataSource
	logger   *slog.Logger
	pageOpts pagination.Options

	mu   sync.RWMutex
	gems []catalog.Gem

	loadMu sync.RWMutex
	loaded bool
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

// New returns a Store backed by source. Records are loaded on first use.
func New(source catalog.DataSource, opts ...Option) *Store {
	s := &Store{
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pageOpts.Logger == nil {
		s.pageOpts.Logger = s.logger
	}
	return s
}

// ensureLoaded loads the record set once. Concurrent first calls race for the
// load lock and only the winner reads the source.
func (s *Store) ensureLoaded(ctx context.Context) error {
	s.loadMu.RLock()
	loaded := s.loaded
	s.loadMu.RUnlock()
	if loaded {
		return nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.loaded {
		return nil
	}

	gems, err := s.source.LoadAll(ctx)
	if err != nil {
		return catalog.StoreError(err, "load gems")
	}

	s.mu.Lock()
	s.gems = gems
	s.mu.Unlock()

	s.loaded = true
	s.logger.Info("gem catalog loaded", "source", s.source.Kind(), "count", len(gems))
	return nil
}

// Reload discards the in-memory record set and reads the source again.
func (s *Store) Reload(ctx context.Context) error {
	s.loadMu.Lock()
	s.loaded = false
	s.loadMu.Unlock()
	return s.ensureLoaded(ctx)
}

// snapshot returns the records matching spec in storage order.
func (s *Store) snapshot(spec query.FilterSpec) []catalog.Gem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Gem, 0, len(s.gems))
	for _, g := range s.gems {
		if spec.Matches(g) {
			out = append(out, g)
		}
	}
	return out
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i, g := range s.gems {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with mu held for writing.
func (s *Store) persist(ctx context.Context) error {
	if err := s.source.Persist(ctx, s.gems); err != nil {
		return catalog.StoreError(err, "persist gems")
	}
	return nil
}

// List returns one page of the records matching params.
func (s *Store) List(ctx context.Context, params query.Params, page pagination.Request) (pagination.Envelope[catalog.Gem], error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return pagination.Envelope[catalog.Gem]{}, err
	}

	spec, warnings := query.NormalizeWithWarnings(params)
	for _, w := range warnings {
		s.logger.Debug("ignored filter clause", "kind", w.Kind, "clause", w.Clause)
	}

	matched := s.snapshot(spec)
	query.SortRecords(matched, query.OrderFor(spec))

	return pagination.PaginateSlice(matched, page, s.pageOpts), nil
}

// Get retrieves a single gem by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (catalog.Gem, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return catalog.Gem{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return catalog.Gem{}, catalog.ErrNotFound
	}
	return s.gems[i], nil
}

// Create stores a new gem and persists the record set.
func (s *Store) Create(ctx context.Context, req catalog.CreateGemRequest) (catalog.Gem, error) {
	if err := req.Validate(); err != nil {
		return catalog.Gem{}, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return catalog.Gem{}, err
	}

	gem := req.ToGem()

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.gems
	s.gems = append(prev[:len(prev):len(prev)], gem)
	if err := s.persist(ctx); err != nil {
		s.gems = prev
		return catalog.Gem{}, err
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
	if err := s.ensureLoaded(ctx); err != nil {
		return catalog.Gem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return catalog.Gem{}, catalog.ErrNotFound
	}

	old := s.gems[i]
	updated := mutate(old)
	s.gems[i] = updated
	if err := s.persist(ctx); err != nil {
		s.gems[i] = old
		return catalog.Gem{}, err
	}

	s.logger.Info("gem updated", "id", id)
	return updated, nil
}

// Delete removes a gem and persists the record set.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return catalog.ErrNotFound
	}

	prev := s.gems
	next := make([]catalog.Gem, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)

	s.gems = next
	if err := s.persist(ctx); err != nil {
		s.gems = prev
		return err
	}

	s.logger.Info("gem deleted", "id", id)
	return nil
}

func (s *Store) distinct(ctx context.Context, field catalog.MetadataField) ([]string, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.DistinctValues(s.gems, field), nil
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
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	matched := s.snapshot(catalog.SearchSpec(term))
	query.SortRecords(matched, catalog.SearchOrder)
	if len(matched) > catalog.SearchLimit {
		matched = matched[:catalog.SearchLimit]
	}
	return matched, nil
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.gems)
}
