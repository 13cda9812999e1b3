package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-errors"
)

var envVars = []string{
	"BACKEND", "DATA_FILE", "LOG_LEVEL", "DATABASE_DIALECT", "DATABASE_DSN",
	"CACHE_NAMESPACE", "CACHE_ENABLED", "CACHE_TTL", "PAGINATION_REPORT_REQUESTED_LIMIT",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(EnvPrefix+key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gemcatalog.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Backend != BackendMemory || !cfg.Cache.Enabled {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Cache.TTLs.List != 60*time.Second || cfg.Cache.TTLs.Search != 45*time.Second {
		t.Errorf("unexpected TTLs %+v", cfg.Cache.TTLs)
	}
	if cfg.Cache.Namespace != "gemcatalog" {
		t.Errorf("expected gemcatalog namespace, got %q", cfg.Cache.Namespace)
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name    string
		file    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "NoFile",
			check: func(t *testing.T, cfg *Config) {
				if cfg.DataFile != "data/gems.json" {
					t.Errorf("expected default data file, got %q", cfg.DataFile)
				}
			},
		},
		{
			name: "FileOverridesDefaults",
			file: `
backend = "sql"
log_level = "debug"

[database]
dialect = "postgres"
dsn = "postgres://localhost/gems?sslmode=disable"
max_open_conns = 8

[cache]
enabled = true
namespace = "wiccapedia"
capacity = 500
num_shards = 4
ttl = "5m"
eviction_percentage = 20

[cache.ttls]
list = "30s"

[pagination]
report_requested_limit = true
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Backend != BackendSQL || cfg.Database.Dialect != "postgres" || cfg.Database.MaxOpenConns != 8 {
					t.Errorf("unexpected database section %+v", cfg.Database)
				}
				if cfg.Cache.TTL != 5*time.Minute || cfg.Cache.Capacity != 500 {
					t.Errorf("unexpected cache section %+v", cfg.Cache)
				}
				if cfg.Cache.TTLs.List != 30*time.Second || cfg.Cache.TTLs.Detail != 300*time.Second {
					t.Errorf("expected partial TTL override, got %+v", cfg.Cache.TTLs)
				}
				if !cfg.Pagination.ReportRequestedLimit {
					t.Error("expected report_requested_limit")
				}
				if cfg.Level() != slog.LevelDebug {
					t.Errorf("expected debug level, got %v", cfg.Level())
				}
			},
		},
		{
			name: "EnvWinsOverFile",
			file: `backend = "memory"`,
			env: map[string]string{
				"BACKEND":          "sql",
				"DATABASE_DIALECT": "sqlite",
				"DATABASE_DSN":     "file:test.db",
				"CACHE_ENABLED":    "false",
				"CACHE_TTL":        "90s",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Backend != BackendSQL || cfg.Database.DSN != "file:test.db" {
					t.Errorf("expected env overrides, got %+v", cfg)
				}
				if cfg.Cache.Enabled || cfg.Cache.TTL != 90*time.Second {
					t.Errorf("expected cache overrides, got %+v", cfg.Cache)
				}
			},
		},
		{
			name:    "UnknownBackend",
			env:     map[string]string{"BACKEND": "redis"},
			wantErr: true,
		},
		{
			name:    "BadDialectWithSQLBackend",
			file:    "backend = \"sql\"\n[database]\ndialect = \"oracle\"\n",
			wantErr: true,
		},
		{
			name: "BadDialectIgnoredWithMemoryBackend",
			file: "[database]\ndialect = \"oracle\"\n",
		},
		{
			name:    "InvalidCacheWhenEnabled",
			file:    "[cache]\ncapacity = 0\n",
			wantErr: true,
		},
		{
			name: "InvalidCacheIgnoredWhenDisabled",
			file: "[cache]\nenabled = false\ncapacity = 0\n",
		},
		{
			name:    "BadBoolEnv",
			env:     map[string]string{"CACHE_ENABLED": "sometimes"},
			wantErr: true,
		},
		{
			name:    "BadDurationEnv",
			env:     map[string]string{"CACHE_TTL": "soon"},
			wantErr: true,
		},
		{
			name:    "MalformedFile",
			file:    "backend = ",
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(EnvPrefix+k, v)
			}

			path := ""
			if tc.file != "" {
				path = writeConfig(t, tc.file)
			}

			cfg, err := Load(path)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got config %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.check != nil {
				tc.check(t, cfg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearAllEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestValidate_ReportsFields(t *testing.T) {
	cfg := Default()
	cfg.Backend = ""
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	fields, ok := errors.GetValidationErrors(err)
	if !ok || len(fields) != 2 {
		t.Errorf("expected two field errors, got %v", fields)
	}
}
