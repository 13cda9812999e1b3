package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-gem-catalog/cache"
	"github.com/goliatone/go-gem-catalog/catalog/sqlstore"
	"github.com/goliatone/go-gem-catalog/catalogcache"
)

// Backends.
const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GEMCATALOG_"

type Config struct {
	Backend  string          `toml:"backend"`   // GEMCATALOG_BACKEND (default "memory")
	DataFile string          `toml:"data_file"` // GEMCATALOG_DATA_FILE (default "data/gems.json")
	LogLevel string          `toml:"log_level"` // GEMCATALOG_LOG_LEVEL (default "info")
	Database sqlstore.Config `toml:"database"`

	Cache      CacheConfig      `toml:"cache"`
	Pagination PaginationConfig `toml:"pagination"`
}

// CacheConfig configures the in-process cache store and the read TTLs.
type CacheConfig struct {
	Enabled            bool              `toml:"enabled"`   // GEMCATALOG_CACHE_ENABLED
	Namespace          string            `toml:"namespace"` // GEMCATALOG_CACHE_NAMESPACE
	Capacity           int               `toml:"capacity"`
	NumShards          int               `toml:"num_shards"`
	TTL                time.Duration     `toml:"ttl"` // GEMCATALOG_CACHE_TTL
	EvictionPercentage int               `toml:"eviction_percentage"`
	EvictionInterval   time.Duration     `toml:"eviction_interval"`
	TTLs               catalogcache.TTLs `toml:"ttls"`
}

type PaginationConfig struct {
	// ReportRequestedLimit echoes the caller's limit as page_size.
	ReportRequestedLimit bool `toml:"report_requested_limit"` // GEMCATALOG_PAGINATION_REPORT_REQUESTED_LIMIT
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() Config {
	store := cache.DefaultConfig()
	return Config{
		Backend:  BackendMemory,
		DataFile: "data/gems.json",
		LogLevel: "info",
		Database: sqlstore.DefaultConfig(),
		Cache: CacheConfig{
			Enabled:            true,
			Namespace:          store.Namespace,
			Capacity:           store.Capacity,
			NumShards:          store.NumShards,
			TTL:                store.TTL,
			EvictionPercentage: store.EvictionPercentage,
			EvictionInterval:   store.EvictionInterval,
			TTLs:               catalogcache.DefaultTTLs(),
		},
	}
}

// Load starts from Default, applies the TOML file at path when path is not
// empty, then the GEMCATALOG_* environment, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(err, errors.CategoryNotFound, "config file not found").
					WithMetadata(map[string]any{"path": path})
			}
			return nil, errors.Wrap(err, errors.CategoryBadInput, "parse config file").
				WithMetadata(map[string]any{"path": path})
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Backend = envOrDefault("BACKEND", c.Backend)
	c.DataFile = envOrDefault("DATA_FILE", c.DataFile)
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)
	c.Database.Dialect = envOrDefault("DATABASE_DIALECT", c.Database.Dialect)
	c.Database.DSN = envOrDefault("DATABASE_DSN", c.Database.DSN)
	c.Cache.Namespace = envOrDefault("CACHE_NAMESPACE", c.Cache.Namespace)

	var err error
	if c.Cache.Enabled, err = envBool("CACHE_ENABLED", c.Cache.Enabled); err != nil {
		return err
	}
	if c.Pagination.ReportRequestedLimit, err = envBool("PAGINATION_REPORT_REQUESTED_LIMIT", c.Pagination.ReportRequestedLimit); err != nil {
		return err
	}
	if v := os.Getenv(EnvPrefix + "CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError("CACHE_TTL", err)
		}
		c.Cache.TTL = d
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, envError(key, err)
	}
	return b, nil
}

func envError(key string, err error) error {
	return errors.Wrap(err, errors.CategoryBadInput, "invalid environment override").
		WithMetadata(map[string]any{"variable": EnvPrefix + key})
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks every section that the selected backend uses.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendMemory, BackendSQL)),
		validation.Field(&c.DataFile, validation.When(c.Backend == BackendMemory, validation.Required)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Database, validation.Skip.When(c.Backend != BackendSQL)),
		validation.Field(&c.Cache, validation.Skip.When(!c.Cache.Enabled), validation.By(func(any) error {
			return c.Cache.StoreConfig().Validate()
		})),
	)
	if err != nil {
		return errors.FromOzzoValidation(err, "invalid configuration")
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	if l, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelInfo
}

// StoreConfig converts the cache section into a cache.Config.
func (c CacheConfig) StoreConfig() cache.Config {
	return cache.Config{
		Namespace:          c.Namespace,
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}
