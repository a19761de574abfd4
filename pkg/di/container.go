// Package di wires the repository engine's collaborators into a single
// container: backend client, shared cache client, entity registry, and
// logger, plus a factory for typed repositories.
package di

import (
	"fmt"

	"github.com/goliatone/go-repository-search/backend"
	"github.com/goliatone/go-repository-search/cache"
	"github.com/goliatone/go-repository-search/entity"
	"github.com/goliatone/go-repository-search/searchrepo"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// Config configures the container. Backend is required; everything else
// has working defaults.
type Config struct {
	// Backend is the search backend client all repositories share.
	Backend backend.Client

	// Breaker, when set, wraps the backend client in a circuit breaker.
	Breaker *gobreaker.Settings

	// Memory configures the default in-process cache. Ignored when Redis
	// is set.
	Memory *cache.MemoryConfig

	// Redis, when set, selects the distributed cache client instead of the
	// in-process one.
	Redis *cache.RedisConfig

	// DisableCache builds repositories without a cache layer.
	DisableCache bool

	Logger *zerolog.Logger
}

// Container manages singleton instances of the engine's shared components
// and provides factory methods for creating typed repositories.
type Container struct {
	backend  backend.Client
	cache    cache.Client
	registry *entity.Registry
	logger   *zerolog.Logger
}

// NewContainer creates a container from the provided configuration. The
// cache client defaults to an in-process cache with default settings.
func NewContainer(cfg Config) (*Container, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("di: backend client is required")
	}

	be := cfg.Backend
	if cfg.Breaker != nil {
		be = backend.WithBreaker(be, *cfg.Breaker)
	}

	var cacheClient cache.Client
	if !cfg.DisableCache {
		var err error
		switch {
		case cfg.Redis != nil:
			cacheClient, err = cache.NewRedisClient(*cfg.Redis)
		case cfg.Memory != nil:
			cacheClient, err = cache.NewMemoryClient(*cfg.Memory)
		default:
			cacheClient, err = cache.NewMemoryClient(cache.DefaultMemoryConfig())
		}
		if err != nil {
			return nil, fmt.Errorf("di: build cache client: %w", err)
		}
	}

	return &Container{
		backend:  be,
		cache:    cacheClient,
		registry: entity.NewRegistry(),
		logger:   cfg.Logger,
	}, nil
}

// Register declares an entity type's capabilities with the container's
// registry. Call once per type during setup.
func (c *Container) Register(d entity.Descriptor) error {
	return c.registry.Register(d)
}

// Backend returns the shared backend client.
func (c *Container) Backend() backend.Client {
	return c.backend
}

// Cache returns the shared cache client, or nil when caching is disabled.
func (c *Container) Cache() cache.Client {
	return c.cache
}

// Registry returns the shared entity registry.
func (c *Container) Registry() *entity.Registry {
	return c.registry
}

// NewRepository creates a typed repository for a registered entity.
//
// Since Go methods cannot have type parameters, this is provided as a
// package-level function. Example: NewRepository[Order](container, "Order").
func NewRepository[T any](c *Container, name string) (*searchrepo.Repository[T], error) {
	desc, ok := c.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("di: entity %q is not registered", name)
	}
	return searchrepo.New[T](searchrepo.Config{
		Backend:    c.backend,
		Cache:      c.cache,
		Descriptor: desc,
		Logger:     c.logger,
	})
}
