// Package catalogcache provides a cached decorator for catalog.Service.
//
// # Overview
//
// CachedService wraps any catalog backend and serves its read operations
// through a cache.VersionGate. Write operations are delegated directly to the
// base service and, when they succeed, invalidate the cache.
//
// # Keys
//
// Every read is cached under the "gems" version group. The suffix identifies
// the call:
//
//	gems:list:limit=20:cursor=:search=!:filter=color+eq+rojo:...
//	gems:id:3f1c2a4e-0b6d-4c0e-9a51-000000000001
//	metadata:colors | metadata:categories | metadata:formulas
//	search:q=cuarzo
//
// and the gate prefixes it with the group's generation ("v3:gems:id:...").
//
// # Invalidation
//
// Instead of tracking and deleting individual keys, a successful Create,
// Update, UpdateImage or Delete increments the group generation exactly once.
// Entries stored under older generations are never read again and expire on
// their own TTL.
//
// # TTLs
//
// List results live for 60s, single gems for 300s, metadata enumerations for
// 600s and search results for 45s. Use WithTTLs to change them.
//
// # Bypass
//
// WithoutCache returns a context whose reads skip the cache entirely:
//
//	gems, err := svc.Search(catalogcache.WithoutCache(ctx), "cuarzo")
//
// # Failure handling
//
// Cache failures never surface to callers. Backend errors are returned as-is
// and are never cached, so a not-found lookup is retried against the backend
// on the next call.
package catalogcache
