package cache

import (
	"context"
	"time"
)

// KeySerializer builds a cache key suffix from a method name + arbitrary args.
// It is responsible for producing stable keys across calls and processes.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// ComputeFn produces the authoritative value for a cache miss.
type ComputeFn[T any] func(ctx context.Context) (T, error)

// Store is the contract the versioning gate needs from a cache backend.
//
// GetVersion returns 1 for a group that has never been incremented.
// IncrVersion increments the group's counter by exactly one and returns the
// new value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	GetVersion(ctx context.Context, group string) (int64, error)
	IncrVersion(ctx context.Context, group string) (int64, error)
}

// Codec turns cached values into bytes and back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}
