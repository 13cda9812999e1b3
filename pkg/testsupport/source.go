package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-gem-catalog/catalog"
)

var _ catalog.DataSource = (*MemorySource)(nil)

// MemorySource is a catalog.DataSource that keeps the persisted set in memory
// and counts calls. Set LoadErr or PersistErr to inject failures.
type MemorySource struct {
	mu sync.Mutex

	gems       []catalog.Gem
	LoadErr    error
	PersistErr error

	LoadCalls    int
	PersistCalls int
}

// NewMemorySource returns a source seeded with a copy of gems.
func NewMemorySource(gems []catalog.Gem) *MemorySource {
	return &MemorySource{gems: append([]catalog.Gem(nil), gems...)}
}

func (m *MemorySource) LoadAll(ctx context.Context) ([]catalog.Gem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return append([]catalog.Gem(nil), m.gems...), nil
}

func (m *MemorySource) Persist(ctx context.Context, gems []catalog.Gem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistCalls++
	if m.PersistErr != nil {
		return m.PersistErr
	}
	m.gems = append([]catalog.Gem(nil), gems...)
	return nil
}

func (m *MemorySource) Available(ctx context.Context) bool { return true }

func (m *MemorySource) Kind() string { return "memory" }

// Persisted returns a copy of the last persisted set.
func (m *MemorySource) Persisted() []catalog.Gem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]catalog.Gem(nil), m.gems...)
}

// SetPersistErr changes the injected persist failure.
func (m *MemorySource) SetPersistErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistErr = err
}

// Calls returns the load and persist call counts.
func (m *MemorySource) Calls() (load, persist int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoadCalls, m.PersistCalls
}
