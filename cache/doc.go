// Package cache provides the read-through cache used in front of the gem
// catalog, with group-wide invalidation through generation counters.
//
// # Overview
//
// The package exports the contracts and the gate that sits on the read path:
//
//   - Store: payload get/set with a TTL plus per-group version counters
//   - VersionGate: serves reads under versioned keys and bumps versions on writes
//   - KeySerializer: builds stable key suffixes from a method name and arguments
//   - Codec: turns values into bytes (msgpack by default)
//
// # Versioned Keys
//
// Every group (for example "gems") has a generation that starts at 1. A read
// for suffix "gems:id:42" while the generation is 3 looks up the key
//
//	v3:gems:id:42
//
// Invalidate increments the generation once. Entries cached under older
// generations are never deleted; they become unreachable and expire through
// their TTL. Invalidation cost does not depend on how many keys were cached.
//
// # Basic Usage
//
//	store, err := cache.NewStore(cache.DefaultConfig())
//	gate := cache.NewVersionGate(store, cache.WithLogger(logger))
//
//	gem, err := cache.Read(ctx, gate, "gems", "gems:id:"+id, 5*time.Minute,
//		func(ctx context.Context) (catalog.Gem, error) {
//			return backend.Get(ctx, id)
//		})
//
//	// after a successful write
//	gate.Invalidate(ctx, "gems")
//
// # Failure Handling
//
// The cache is advisory. When the store fails to read a version, get, or set,
// the gate logs a warning and computes the value from the source of truth.
// A failed increment is logged and otherwise ignored. Errors returned by the
// compute function are passed through untouched and never cached.
//
// # Key Serialization Strategy
//
// The default key serializer joins segments with ":". Strings are
// query-escaped so user input can never forge a separator, struct arguments
// expand into "name=value" segments named after their json tags, and absent
// values render as "!" so they stay distinct from empty strings.
//
// # See Also
//
// The catalogcache package wires the gate around a catalog.Service.
package cache
