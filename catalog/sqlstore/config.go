package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// Supported dialects.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// DefaultDSN names an in-memory sqlite database. Open replaces it with a
// database private to the returned Store.
const DefaultDSN = "file:gemcatalog?mode=memory&cache=shared"

// MemoryDSN returns the DSN of the named in-memory sqlite database. Stores
// opened with the same name share its records.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

// Config selects the database a Store talks to.
type Config struct {
	Dialect      string `toml:"dialect" json:"dialect"`
	DSN          string `toml:"dsn" json:"dsn"`
	MaxOpenConns int    `toml:"max_open_conns" json:"max_open_conns"`
}

// DefaultConfig returns an in-process sqlite database.
func DefaultConfig() Config {
	return Config{
		Dialect:      DialectSQLite,
		DSN:          DefaultDSN,
		MaxOpenConns: 1,
	}
}

// Validate checks the dialect and DSN.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Dialect, validation.Required, validation.In(DialectSQLite, DialectPostgres)),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.MaxOpenConns, validation.Min(0)),
	)
	if err != nil {
		return errors.FromOzzoValidation(err, "invalid database config")
	}
	return nil
}

// dsn gives every Open of DefaultDSN its own database, so two stores built
// from the default config never see each other's records.
func (c Config) dsn() string {
	if c.Dialect == DialectSQLite && c.DSN == DefaultDSN {
		return MemoryDSN("gemcatalog-" + uuid.NewString())
	}
	return c.DSN
}

func (c Config) driver() (string, schema.Dialect) {
	if c.Dialect == DialectPostgres {
		return "postgres", pgdialect.New()
	}
	return "sqlite3", sqlitedialect.New()
}

// Open connects to the configured database, creates the schema when missing
// and returns a Store using it.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	driverName, dialect := cfg.driver()
	sqldb, err := sql.Open(driverName, cfg.dsn())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, fmt.Sprintf("open %s database", cfg.Dialect))
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, errors.Wrap(err, errors.CategoryExternal, fmt.Sprintf("connect to %s database", cfg.Dialect))
	}

	store := New(bun.NewDB(sqldb, dialect), opts...)
	if err := store.EnsureSchema(ctx); err != nil {
		sqldb.Close()
		return nil, err
	}
	return store, nil
}
