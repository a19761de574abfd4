package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// ScopedCache namespaces every key by entity type before it reaches the
// underlying Client, and takes care of value serialization. One scope per
// repository: point lookups cache under the bare document id, query results
// under the prefixed keys from keys.go, and the soft-delete tombstone set
// under DeletedSetKey, all isolated from other entity types.
type ScopedCache struct {
	client Client
	scope  string
	log    zerolog.Logger
}

// NewScopedCache creates a cache view namespaced by scope.
func NewScopedCache(client Client, scope string, log zerolog.Logger) *ScopedCache {
	return &ScopedCache{client: client, scope: scope, log: log.With().Str("cache_scope", scope).Logger()}
}

// Scope returns the namespace prefix.
func (s *ScopedCache) Scope() string {
	return s.scope
}

func (s *ScopedCache) scoped(key string) string {
	return s.scope + KeySeparator + key
}

// Get reads and JSON-decodes the value under key into dest, reporting
// whether the key was present.
func (s *ScopedCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok, err := s.client.Get(ctx, s.scoped(key))
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten by
		// the next write-through.
		s.log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return false, nil
	}
	return true, nil
}

// GetAll reads many keys at once, returning raw values keyed by the
// unscoped key. Absent keys are missing from the map.
func (s *ScopedCache) GetAll(ctx context.Context, keys []string) (map[string][]byte, error) {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = s.scoped(k)
	}
	raw, err := s.client.GetAll(ctx, scoped)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(raw))
	for i, k := range keys {
		if v, ok := raw[scoped[i]]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Set JSON-encodes value and stores it under key with the given ttl.
func (s *ScopedCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.scoped(key), raw, ttl)
}

// Remove deletes the given keys from the scope. The external write path
// calls this through Repository.InvalidateCache on every mutation it owns.
func (s *ScopedCache) Remove(ctx context.Context, keys ...string) error {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = s.scoped(k)
	}
	return s.client.RemoveAll(ctx, scoped...)
}

// SetMembers returns the members of the string set under key.
func (s *ScopedCache) SetMembers(ctx context.Context, key string) ([]string, error) {
	return s.client.GetSet(ctx, s.scoped(key))
}

// AddMembers adds members to the string set under key.
func (s *ScopedCache) AddMembers(ctx context.Context, key string, ttl time.Duration, members ...string) error {
	return s.client.AddToSet(ctx, s.scoped(key), ttl, members...)
}

// RemoveMembers removes members from the string set under key.
func (s *ScopedCache) RemoveMembers(ctx context.Context, key string, members ...string) error {
	return s.client.RemoveFromSet(ctx, s.scoped(key), members...)
}
