package cache

import (
	"time"

	"github.com/goliatone/go-repository-search/internal/cacheinfra"
	"github.com/goliatone/go-repository-search/internal/redisinfra"
)

// MemoryConfig configures the in-process sharded cache client.
type MemoryConfig struct {
	// Capacity is the maximum number of entries. Must be greater than 0.
	Capacity int

	// NumShards determines how many shards back the cache. Higher values
	// improve concurrency at some memory overhead. Must be greater than 0.
	NumShards int

	// TTL is the time-to-live applied to entries. The in-process engine
	// uses a single client-wide TTL; per-entry expirations passed to Set
	// are honored only by distributed clients.
	TTL time.Duration

	// EvictionPercentage is what percentage of entries to evict when the
	// cache reaches capacity. Must be between 1 and 100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are collected.
	// Zero uses the engine default.
	EvictionInterval time.Duration
}

// DefaultMemoryConfig returns a MemoryConfig with sensible defaults.
func DefaultMemoryConfig() MemoryConfig {
	return convertMemoryFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c MemoryConfig) Validate() error {
	return c.toInternal().Validate()
}

// NewMemoryClient constructs the in-process Client implementation.
func NewMemoryClient(cfg MemoryConfig) (Client, error) {
	return cacheinfra.NewMemoryClient(cfg.toInternal())
}

func (c MemoryConfig) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertMemoryFromInternal(cfg cacheinfra.Config) MemoryConfig {
	return MemoryConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}

// RedisConfig configures the Redis-backed Client implementation.
type RedisConfig struct {
	Address      string
	Username     string
	Password     string
	Database     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

// NewRedisClient constructs the Redis Client implementation and verifies
// connectivity before returning it.
func NewRedisClient(cfg RedisConfig) (Client, error) {
	return redisinfra.NewClient(cfg.toInternal())
}

func (c RedisConfig) toInternal() redisinfra.Config {
	return redisinfra.Config{
		Address:      c.Address,
		Username:     c.Username,
		Password:     c.Password,
		Database:     c.Database,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}
