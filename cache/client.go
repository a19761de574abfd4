package cache

import (
	"context"
	"time"
)

// Client is the storage contract the coordinator speaks. Implementations
// ship for an in-process sharded cache (NewMemoryClient) and for Redis
// (NewRedisClient); any other backend can slot in by implementing this
// interface. All keys reaching a Client have already been namespaced by
// entity type by the ScopedCache.
type Client interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// GetAll returns the present subset of keys; absent keys are simply
	// missing from the returned map.
	GetAll(ctx context.Context, keys []string) (map[string][]byte, error)

	// Set stores value under key with the given time-to-live.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// RemoveAll deletes the given keys. Missing keys are not an error.
	RemoveAll(ctx context.Context, keys ...string) error

	// GetSet returns the members of the string set stored under key, or an
	// empty slice when the set is absent. Used for the soft-delete
	// tombstone set.
	GetSet(ctx context.Context, key string) ([]string, error)

	// AddToSet adds members to the string set under key and refreshes its
	// time-to-live.
	AddToSet(ctx context.Context, key string, ttl time.Duration, members ...string) error

	// RemoveFromSet removes members from the string set under key.
	RemoveFromSet(ctx context.Context, key string, members ...string) error
}
