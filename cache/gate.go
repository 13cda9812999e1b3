package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"
)

// DefaultVersion is the generation of a group that was never invalidated.
const DefaultVersion int64 = 1

// VersionGate serves reads from a Store under keys that embed the group's
// current generation, and invalidates a whole group by bumping the generation.
// Store failures never reach the caller: the gate logs them and falls back to
// computing the value.
//
// A nil *VersionGate is valid and behaves as a pass-through.
type VersionGate struct {
	store  Store
	codec  Codec
	logger *slog.Logger
}

// GateOption configures a VersionGate.
type GateOption func(*VersionGate)

// WithCodec replaces the default msgpack codec.
func WithCodec(c Codec) GateOption {
	return func(g *VersionGate) {
		if c != nil {
			g.codec = c
		}
	}
}

// WithLogger sets the logger used for cache failures.
func WithLogger(l *slog.Logger) GateOption {
	return func(g *VersionGate) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewVersionGate wraps store. A nil store yields a pass-through gate.
func NewVersionGate(store Store, opts ...GateOption) *VersionGate {
	g := &VersionGate{
		store:  store,
		codec:  NewMsgpackCodec(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether reads go through a store.
func (g *VersionGate) Enabled() bool {
	return g != nil && g.store != nil
}

// VersionedKey builds "v{version}:{suffix}".
func VersionedKey(version int64, suffix string) string {
	return "v" + strconv.FormatInt(version, 10) + KeySeparator + suffix
}

// Version returns the current generation of group, or DefaultVersion when the
// store cannot be reached.
func (g *VersionGate) Version(ctx context.Context, group string) int64 {
	if !g.Enabled() {
		return DefaultVersion
	}
	v, err := g.store.GetVersion(ctx, group)
	if err != nil {
		g.warn(err, "cache version read failed", map[string]any{"group": group})
		return DefaultVersion
	}
	return max(v, DefaultVersion)
}

// Read returns the cached value for suffix under the current generation of
// group, computing and storing it on a miss. Compute errors are returned and
// never cached.
func Read[T any](ctx context.Context, g *VersionGate, group, suffix string, ttl time.Duration, compute ComputeFn[T]) (T, error) {
	if !g.Enabled() {
		return compute(ctx)
	}

	version, err := g.store.GetVersion(ctx, group)
	if err != nil {
		g.warn(err, "cache version read failed", map[string]any{"group": group})
		return compute(ctx)
	}

	key := VersionedKey(max(version, DefaultVersion), suffix)

	data, found, err := g.store.Get(ctx, key)
	switch {
	case err != nil:
		g.warn(err, "cache get failed", map[string]any{"key": key})
	case found:
		var cached T
		decodeErr := g.codec.Unmarshal(data, &cached)
		if decodeErr == nil {
			g.logger.Debug("cache hit", "key", key)
			return cached, nil
		}
		g.warn(decodeErr, "cache entry decode failed", map[string]any{"key": key})
	}

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := g.codec.Marshal(value)
	if err != nil {
		g.warn(err, "cache entry encode failed", map[string]any{"key": key})
		return value, nil
	}
	if err := g.store.Set(ctx, key, encoded, ttl); err != nil {
		g.warn(err, "cache set failed", map[string]any{"key": key})
	}

	return value, nil
}

// Invalidate bumps the generation of group once, making every entry cached
// under the previous generation unreachable. Failures are logged only.
func (g *VersionGate) Invalidate(ctx context.Context, group string) {
	if !g.Enabled() {
		return
	}
	v, err := g.store.IncrVersion(ctx, group)
	if err != nil {
		g.warn(err, "cache version increment failed", map[string]any{"group": group})
		return
	}
	g.logger.Debug("cache group invalidated", "group", group, "version", v)
}

func (g *VersionGate) warn(err error, msg string, meta map[string]any) {
	e := errors.Wrap(err, errors.CategoryExternal, msg).
		WithMetadata(meta).
		WithSeverity(errors.SeverityWarning)
	errors.LogBySeverity(g.logger, e)
}
