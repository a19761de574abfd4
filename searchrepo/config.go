package searchrepo

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-repository-search/backend"
	"github.com/goliatone/go-repository-search/cache"
	"github.com/goliatone/go-repository-search/entity"
	"github.com/rs/zerolog"
)

// DefaultCacheTTL is the result-cache expiration used when neither the
// config nor the per-call options specify one.
const DefaultCacheTTL = 5 * time.Minute

// Config wires a repository instance.
type Config struct {
	// Backend is the search backend client. Required.
	Backend backend.Client

	// Builder turns finalized queries into backend requests. Defaults to
	// backend.PassthroughBuilder.
	Builder backend.RequestBuilder

	// Cache is the cache client. Nil disables the cache layer entirely.
	Cache cache.Client

	// Descriptor declares the target entity type's capabilities. Required.
	Descriptor entity.Descriptor

	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger

	// CacheTTL is the default result-cache expiration. Defaults to
	// DefaultCacheTTL.
	CacheTTL time.Duration

	// ExcludeFields is applied as the default source exclusion when a
	// query specifies no field include/exclude lists of its own.
	ExcludeFields []string
}

// Validate checks the configuration for structural problems.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required),
	); err != nil {
		return err
	}
	return c.Descriptor.Validate()
}
