package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
)

const defaultVersion int64 = 1

// entry is what sturdyc holds for every payload. sturdyc only knows the
// client-wide TTL, so each entry carries its own expiry.
type entry struct {
	data      []byte
	expiresAt time.Time
}

// SturdycStore keeps cache payloads in a sturdyc client and generation
// counters in an xsync map. It satisfies cache.Store.
type SturdycStore struct {
	client    *sturdyc.Client[entry]
	versions  *xsync.MapOf[string, int64]
	namespace string
	maxTTL    time.Duration
	now       func() time.Time
}

// StoreOption customizes a SturdycStore.
type StoreOption func(*SturdycStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *SturdycStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSturdycStore validates cfg and builds the store.
func NewSturdycStore(cfg Config, opts ...StoreOption) (*SturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	s := &SturdycStore{
		client:    client,
		versions:  xsync.NewMapOf[string, int64](),
		namespace: cfg.Namespace,
		maxTTL:    cfg.TTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// WithNamespace returns a store over the same sturdyc client and version
// counters whose keys live under namespace. A store without a namespace owns
// every key of the client.
func (s *SturdycStore) WithNamespace(namespace string) *SturdycStore {
	c := *s
	c.namespace = namespace
	return &c
}

func (s *SturdycStore) payloadKey(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

func (s *SturdycStore) versionKey(group string) string {
	if s.namespace == "" {
		return "version:" + group
	}
	return s.namespace + ":version:" + group
}

// Get returns the payload stored under key, if present and not expired.
func (s *SturdycStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	k := s.payloadKey(key)
	e, ok := s.client.Get(k)
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.client.Delete(k)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores value under key for ttl. A non-positive ttl or one above the
// configured maximum is clamped to the maximum.
func (s *SturdycStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl <= 0 || ttl > s.maxTTL {
		ttl = s.maxTTL
	}

	data := make([]byte, len(value))
	copy(data, value)

	s.client.Set(s.payloadKey(key), entry{data: data, expiresAt: s.now().Add(ttl)})
	return nil
}

// GetVersion returns the generation of group, 1 when it was never bumped.
func (s *SturdycStore) GetVersion(ctx context.Context, group string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	v, ok := s.versions.Load(s.versionKey(group))
	if !ok {
		return defaultVersion, nil
	}
	return v, nil
}

// IncrVersion atomically adds one to the generation of group. An absent
// counter starts at 1, so the first increment returns 2.
func (s *SturdycStore) IncrVersion(ctx context.Context, group string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	v, _ := s.versions.Compute(s.versionKey(group), func(old int64, loaded bool) (int64, bool) {
		if !loaded {
			old = defaultVersion
		}
		return old + 1, false
	})
	return v, nil
}

// Flush drops every payload and version counter in this store's namespace.
func (s *SturdycStore) Flush() {
	prefix := s.payloadKey("")
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	versionPrefix := s.versionKey("")
	s.versions.Range(func(key string, _ int64) bool {
		if strings.HasPrefix(key, versionPrefix) {
			s.versions.Delete(key)
		}
		return true
	})
}

// Size returns the number of payload entries held in this store's namespace.
func (s *SturdycStore) Size() int {
	prefix := s.payloadKey("")
	n := 0
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n
}
