// Package cache provides the caching coordinator for search repositories.
//
// # Overview
//
// Three pieces cooperate here:
//
//   - Client: the storage contract (get, get-all, set, remove-all, plus
//     string-set operations backing the soft-delete tombstone set). Two
//     implementations ship: NewMemoryClient (in-process, sharded) and
//     NewRedisClient (distributed).
//   - ScopedCache: namespaces every key by entity type before it reaches
//     the Client and handles JSON value serialization.
//   - The key scheme in keys.go: operation-family prefixes (find, one,
//     count) and the page:limit suffix keep independent cached results
//     from colliding under a shared base key.
//
// # Key scheme
//
// A result-cache key has the shape
//
//	<entity scope>:<prefix>:<caller cache key>[:<page>:<limit>]
//
// Point lookups bypass the scheme and cache under the bare document id
// inside the entity scope. The soft-delete tombstone set lives under
// DeletedSetKey in the same scope.
//
// # Deriving keys from queries
//
// Callers that want query-shaped keys instead of hand-chosen ones can use
// QueryKey, which digests a query value into a short stable key:
//
//	opts := query.NewOptions().WithCacheKey(cache.QueryKey(q), 5*time.Minute)
//
// # Staleness
//
// Query-result caching accepts bounded staleness: a race between a
// write-through and an external invalidation can leave a stale entry until
// its expiration elapses. Point-lookup entries are invalidated
// synchronously by the write path through Repository.InvalidateCache.
package cache
