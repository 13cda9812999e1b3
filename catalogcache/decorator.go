package catalogcache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-gem-catalog/cache"
	"github.com/goliatone/go-gem-catalog/catalog"
	"github.com/goliatone/go-gem-catalog/pagination"
	"github.com/goliatone/go-gem-catalog/query"
)

// Group is the version group shared by every cached catalog read.
const Group = "gems"

// Key prefixes of the cached reads.
const (
	keyList       = "gems:list"
	keyDetail     = "gems:id"
	keyColors     = "metadata:colors"
	keyCategories = "metadata:categories"
	keyFormulas   = "metadata:formulas"
	keySearch     = "search"
)

// Interface assertion to ensure CachedService implements catalog.Service
var _ catalog.Service = (*CachedService)(nil)

// TTLs sets how long each kind of read stays cached.
type TTLs struct {
	List     time.Duration `toml:"list" json:"list"`
	Detail   time.Duration `toml:"detail" json:"detail"`
	Metadata time.Duration `toml:"metadata" json:"metadata"`
	Search   time.Duration `toml:"search" json:"search"`
}

// DefaultTTLs returns the per-endpoint lifetimes used by the catalog API.
func DefaultTTLs() TTLs {
	return TTLs{
		List:     60 * time.Second,
		Detail:   300 * time.Second,
		Metadata: 600 * time.Second,
		Search:   45 * time.Second,
	}
}

// searchKey renders as "q={term}".
type searchKey struct {
	Q string `json:"q"`
}

// CachedService decorates a catalog.Service. Reads go through a
// cache.VersionGate under the "gems" group; successful mutations bump the
// group once so no read can observe a pre-mutation entry.
type CachedService struct {
	base   catalog.Service
	gate   *cache.VersionGate
	keys   cache.KeySerializer
	ttls   TTLs
	logger *slog.Logger
}

// Option configures a CachedService.
type Option func(*CachedService)

// WithKeySerializer replaces the default key serializer.
func WithKeySerializer(k cache.KeySerializer) Option {
	return func(c *CachedService) {
		if k != nil {
			c.keys = k
		}
	}
}

// WithTTLs sets the per-endpoint lifetimes. Zero values keep the defaults.
func WithTTLs(t TTLs) Option {
	return func(c *CachedService) {
		if t.List > 0 {
			c.ttls.List = t.List
		}
		if t.Detail > 0 {
			c.ttls.Detail = t.Detail
		}
		if t.Metadata > 0 {
			c.ttls.Metadata = t.Metadata
		}
		if t.Search > 0 {
			c.ttls.Search = t.Search
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *CachedService) {
		if l != nil {
			c.logger = l
		}
	}
}

// New wraps base. A nil or disabled gate makes every call a pass-through.
func New(base catalog.Service, gate *cache.VersionGate, opts ...Option) *CachedService {
	c := &CachedService{
		base:   base,
		gate:   gate,
		keys:   cache.NewDefaultKeySerializer(),
		ttls:   DefaultTTLs(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the decorated service.
func (c *CachedService) Base() catalog.Service {
	return c.base
}

func read[T any](ctx context.Context, c *CachedService, suffix string, ttl time.Duration, compute cache.ComputeFn[T]) (T, error) {
	if bypassed(ctx) {
		return compute(ctx)
	}
	return cache.Read(ctx, c.gate, Group, suffix, ttl, compute)
}

// ListKey returns the cache key suffix of a List call. Raw parameters are
// keyed, so requests that differ in any parameter never share an entry.
func (c *CachedService) ListKey(params query.Params, page pagination.Request) string {
	return c.keys.SerializeKey(keyList, page, params)
}

// List retrieves a page of gems, with caching
func (c *CachedService) List(ctx context.Context, params query.Params, page pagination.Request) (pagination.Envelope[catalog.Gem], error) {
	return read(ctx, c, c.ListKey(params, page), c.ttls.List, func(ctx context.Context) (pagination.Envelope[catalog.Gem], error) {
		return c.base.List(ctx, params, page)
	})
}

// Get retrieves a gem by ID, with caching. Not-found results are not cached.
func (c *CachedService) Get(ctx context.Context, id uuid.UUID) (catalog.Gem, error) {
	return read(ctx, c, c.keys.SerializeKey(keyDetail, id), c.ttls.Detail, func(ctx context.Context) (catalog.Gem, error) {
		return c.base.Get(ctx, id)
	})
}

// Colors returns the distinct colors, with caching
func (c *CachedService) Colors(ctx context.Context) ([]string, error) {
	return read(ctx, c, keyColors, c.ttls.Metadata, c.base.Colors)
}

// Categories returns the distinct categories, with caching
func (c *CachedService) Categories(ctx context.Context) ([]string, error) {
	return read(ctx, c, keyCategories, c.ttls.Metadata, c.base.Categories)
}

// Formulas returns the distinct chemical formulas, with caching
func (c *CachedService) Formulas(ctx context.Context) ([]string, error) {
	return read(ctx, c, keyFormulas, c.ttls.Metadata, c.base.Formulas)
}

// Search runs a free-text search, with caching. Empty terms are rejected
// before the cache is consulted.
func (c *CachedService) Search(ctx context.Context, term string) ([]catalog.Gem, error) {
	if err := catalog.ValidateSearchTerm(term); err != nil {
		return nil, err
	}
	return read(ctx, c, c.keys.SerializeKey(keySearch, searchKey{Q: term}), c.ttls.Search, func(ctx context.Context) ([]catalog.Gem, error) {
		return c.base.Search(ctx, term)
	})
}

// Create creates a gem. Write operations pass through to the base service
func (c *CachedService) Create(ctx context.Context, req catalog.CreateGemRequest) (catalog.Gem, error) {
	gem, err := c.base.Create(ctx, req)
	if err == nil {
		c.invalidate(ctx, "create")
	}
	return gem, err
}

// Update replaces a gem's attributes
func (c *CachedService) Update(ctx context.Context, id uuid.UUID, req catalog.CreateGemRequest) (catalog.Gem, error) {
	gem, err := c.base.Update(ctx, id, req)
	if err == nil {
		c.invalidate(ctx, "update")
	}
	return gem, err
}

// UpdateImage associates an image with a gem
func (c *CachedService) UpdateImage(ctx context.Context, id uuid.UUID, image string) (catalog.Gem, error) {
	gem, err := c.base.UpdateImage(ctx, id, image)
	if err == nil {
		c.invalidate(ctx, "update_image")
	}
	return gem, err
}

// Delete deletes a gem
func (c *CachedService) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.base.Delete(ctx, id)
	if err == nil {
		c.invalidate(ctx, "delete")
	}
	return err
}

// invalidate bumps the group generation. Every cached read of the catalog
// depends on the whole record set, so one group covers them all.
func (c *CachedService) invalidate(ctx context.Context, op string) {
	c.logger.Debug("invalidating catalog cache", "operation", op)
	c.gate.Invalidate(ctx, Group)
}
