package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DataSource loads and persists the full record set of the in-memory backend.
type DataSource interface {
	LoadAll(ctx context.Context) ([]Gem, error)
	// Persist replaces the stored record set with gems.
	Persist(ctx context.Context, gems []Gem) error
	Available(ctx context.Context) bool
	Kind() string
}

// JSONFileSource keeps the catalog in a JSON array on disk.
type JSONFileSource struct {
	path   string
	logger *slog.Logger
}

// NewJSONFileSource returns a source for path. A nil logger uses slog.Default.
func NewJSONFileSource(path string, logger *slog.Logger) *JSONFileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONFileSource{path: path, logger: logger}
}

func (s *JSONFileSource) Kind() string { return "json_file" }

func (s *JSONFileSource) Path() string { return s.path }

// Available reports whether the data file exists.
func (s *JSONFileSource) Available(ctx context.Context) bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// LoadAll reads the data file. A missing file yields an empty catalog. Entries
// that fail to decode are recovered from their string fields when they carry
// a name; entries without a name are skipped.
func (s *JSONFileSource) LoadAll(ctx context.Context) ([]Gem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("data file not found, starting with an empty catalog", "path", s.path)
		return []Gem{}, nil
	}
	if err != nil {
		return nil, DataFileError(err, "read data file", s.path)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, DataFileError(err, "parse data file", s.path)
	}

	gems := make([]Gem, 0, len(raw))
	for i, entry := range raw {
		var g Gem
		if err := json.Unmarshal(entry, &g); err != nil {
			recovered, ok := recoverPartial(entry)
			if !ok {
				s.logger.Warn("skipping unreadable gem", "index", i, "error", err)
				continue
			}
			s.logger.Info("recovered partial gem", "index", i, "name", recovered.Name, "error", err)
			g = recovered
		}

		if !g.Repair() {
			s.logger.Warn("skipping gem without a name", "index", i)
			continue
		}
		gems = append(gems, g)
	}

	s.logger.Info("loaded gems from data file", "path", s.path, "count", len(gems))
	return gems, nil
}

// recoverPartial extracts the string attributes of an entry whose strict
// decoding failed.
func recoverPartial(entry json.RawMessage) (Gem, bool) {
	var fields map[string]any
	if err := json.Unmarshal(entry, &fields); err != nil {
		return Gem{}, false
	}

	str := func(key string) string {
		v, _ := fields[key].(string)
		return v
	}

	g := Gem{
		Name:               str("name"),
		Image:              str("image"),
		MagicalDescription: str("magical_description"),
		Category:           str("category"),
		Color:              str("color"),
		ChemicalFormula:    str("chemical_formula"),
	}
	if g.Name == "" {
		return Gem{}, false
	}
	if id, err := uuid.Parse(str("id")); err == nil {
		g.ID = id
	}
	return g, true
}

// Persist writes gems as indented JSON, creating the directory when needed.
// The file is replaced atomically through a temporary file in the same
// directory.
func (s *JSONFileSource) Persist(ctx context.Context, gems []Gem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if gems == nil {
		gems = []Gem{}
	}

	content, err := json.MarshalIndent(gems, "", "  ")
	if err != nil {
		return DataFileError(err, "encode data file", s.path)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return DataFileError(err, "create data directory", s.path)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return DataFileError(err, "create temp data file", s.path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return DataFileError(err, "chmod data file", s.path)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return DataFileError(err, "write data file", s.path)
	}
	if err := tmp.Close(); err != nil {
		return DataFileError(err, "close data file", s.path)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return DataFileError(err, "replace data file", s.path)
	}

	s.logger.Debug("persisted gems to data file", "path", s.path, "count", len(gems))
	return nil
}
