package cacheinfra

import (
	"context"
	"sync"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc-backed memory client.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can
	// store. Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent
	// access. Higher values improve concurrency but increase memory
	// overhead. Must be greater than 0.
	NumShards int

	// TTL is the time-to-live for cached entries. sturdyc applies one TTL
	// client-wide, so per-entry expirations requested through Set are
	// capped by this value. Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired
	// entries. Zero value uses the default interval.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// memoryClient implements the cache client contract on top of a sturdyc
// client. Values are stored as raw bytes; string sets are stored as
// []string under the same keyspace, with mutations serialized by a mutex
// because sturdyc has no native read-modify-write.
type memoryClient struct {
	client *sturdyc.Client[any]

	// setMu guards read-modify-write cycles on set-valued entries.
	setMu sync.Mutex
}

// NewMemoryClient creates the sturdyc-backed cache client.
func NewMemoryClient(cfg Config) (*memoryClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		opts...,
	)

	return &memoryClient{client: client}, nil
}

func (m *memoryClient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return raw, true, nil
}

func (m *memoryClient) GetAll(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if raw, ok, _ := m.Get(ctx, key); ok {
			out[key] = raw
		}
	}
	return out, nil
}

func (m *memoryClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// Per-entry TTL is capped by the client-wide TTL; see Config.TTL.
	m.client.Set(key, any(value))
	return nil
}

func (m *memoryClient) RemoveAll(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		m.client.Delete(key)
	}
	return nil
}

func (m *memoryClient) GetSet(ctx context.Context, key string) ([]string, error) {
	v, ok := m.client.Get(key)
	if !ok {
		return nil, nil
	}
	members, ok := v.([]string)
	if !ok {
		return nil, nil
	}
	return append([]string(nil), members...), nil
}

func (m *memoryClient) AddToSet(ctx context.Context, key string, ttl time.Duration, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	m.setMu.Lock()
	defer m.setMu.Unlock()

	existing, err := m.GetSet(ctx, key)
	if err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(existing)+len(members))
	merged := make([]string, 0, len(existing)+len(members))
	for _, s := range existing {
		seen[s] = struct{}{}
		merged = append(merged, s)
	}
	for _, s := range members {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		merged = append(merged, s)
	}
	m.client.Set(key, any(merged))
	return nil
}

func (m *memoryClient) RemoveFromSet(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	m.setMu.Lock()
	defer m.setMu.Unlock()

	existing, err := m.GetSet(ctx, key)
	if err != nil || len(existing) == 0 {
		return err
	}
	drop := make(map[string]struct{}, len(members))
	for _, s := range members {
		drop[s] = struct{}{}
	}
	kept := existing[:0]
	for _, s := range existing {
		if _, gone := drop[s]; !gone {
			kept = append(kept, s)
		}
	}
	m.client.Set(key, any(append([]string(nil), kept...)))
	return nil
}
