package di

import (
	"context"
	"log/slog"
	"os"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-gem-catalog/cache"
	"github.com/goliatone/go-gem-catalog/catalog"
	"github.com/goliatone/go-gem-catalog/catalog/memory"
	"github.com/goliatone/go-gem-catalog/catalog/sqlstore"
	"github.com/goliatone/go-gem-catalog/catalogcache"
	"github.com/goliatone/go-gem-catalog/config"
	"github.com/goliatone/go-gem-catalog/pagination"
)

// Container wires the catalog backend, the cache store and the cached
// decorator from a single configuration. It owns every resource it opens;
// call Close when done.
type Container struct {
	config        config.Config
	logger        *slog.Logger
	source        catalog.DataSource
	cacheStore    cache.InMemoryStore
	gate          *cache.VersionGate
	keySerializer cache.KeySerializer
	backend       catalog.Service
	service       catalog.Service
	closers       []func() error
}

// Option customizes a Container before its components are built.
type Option func(*Container)

// WithLogger replaces the logger derived from the configured log level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDataSource replaces the JSON data file as the source of records. The
// memory backend serves it directly; the SQL backend imports it into an empty
// table.
func WithDataSource(src catalog.DataSource) Option {
	return func(c *Container) {
		if src != nil {
			c.source = src
		}
	}
}

// NewContainer builds every component described by cfg.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		config:        cfg,
		keySerializer: cache.NewDefaultKeySerializer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	}
	if c.source == nil {
		c.source = catalog.NewJSONFileSource(cfg.DataFile, c.logger)
	}

	if cfg.Cache.Enabled {
		store, err := cache.NewStore(cfg.Cache.StoreConfig())
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "create cache store")
		}
		c.cacheStore = store
		c.gate = cache.NewVersionGate(store, cache.WithLogger(c.logger))
	}

	backend, err := c.buildBackend(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.backend = backend

	c.service = catalogcache.New(backend, c.gate,
		catalogcache.WithKeySerializer(c.keySerializer),
		catalogcache.WithTTLs(cfg.Cache.TTLs),
		catalogcache.WithLogger(c.logger),
	)

	c.logger.Info("gem catalog ready",
		"backend", cfg.Backend,
		"source", c.source.Kind(),
		"cache", c.gate.Enabled(),
	)
	return c, nil
}

// NewContainerWithDefaults builds a container from config.Default.
func NewContainerWithDefaults(ctx context.Context, opts ...Option) (*Container, error) {
	return NewContainer(ctx, config.Default(), opts...)
}

func (c *Container) buildBackend(ctx context.Context) (catalog.Service, error) {
	pageOpts := pagination.Options{
		ReportRequestedLimit: c.config.Pagination.ReportRequestedLimit,
		Logger:               c.logger,
	}

	switch c.config.Backend {
	case config.BackendSQL:
		store, err := sqlstore.Open(ctx, c.config.Database,
			sqlstore.WithLogger(c.logger),
			sqlstore.WithPaginationOptions(pageOpts),
		)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, store.Close)

		if c.source.Available(ctx) {
			if _, err := store.ImportIfEmpty(ctx, c.source); err != nil {
				return nil, err
			}
		}
		return store, nil
	default:
		return memory.New(c.source,
			memory.WithLogger(c.logger),
			memory.WithPaginationOptions(pageOpts),
		), nil
	}
}

// Service returns the cached catalog service. With the cache disabled it
// passes every call through to the backend.
func (c *Container) Service() catalog.Service {
	return c.service
}

// Backend returns the uncached backend.
func (c *Container) Backend() catalog.Service {
	return c.backend
}

// Gate returns the version gate, nil when the cache is disabled.
func (c *Container) Gate() *cache.VersionGate {
	return c.gate
}

// CacheStore returns the in-process cache store, nil when the cache is disabled.
func (c *Container) CacheStore() cache.InMemoryStore {
	return c.cacheStore
}

// KeySerializer returns the serializer shared with the cached service.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config {
	return c.config
}

func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Close releases the backend's resources. It is safe to call more than once.
func (c *Container) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
