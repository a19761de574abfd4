package query

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultLimit is assigned when a query is finalized without an
	// explicit page limit, so unconstrained queries never stream
	// unbounded results without the caller opting in.
	DefaultLimit = 10

	// MaxLimit caps the page limit accepted from callers. It is also the
	// page size used internally when draining an id-filtered fallback.
	MaxLimit = 1000

	// DefaultSnapshotLifetime is the server-side scan lifetime used when
	// cursor paging is requested without an explicit lifetime.
	DefaultSnapshotLifetime = time.Minute
)

// Options is the per-call configuration bag: paging mode, cache directives
// and the target entity-type descriptor name. Offset paging (page/limit)
// and cursor paging (snapshot token/lifetime) are mutually exclusive; once
// a snapshot token exists the page number is ignored.
type Options struct {
	Page             int           `json:"page,omitempty"`
	Limit            int           `json:"limit,omitempty"`
	CacheKey         string        `json:"cache_key,omitempty"`
	ReadCache        bool          `json:"read_cache,omitempty"`
	WriteCache       bool          `json:"write_cache,omitempty"`
	CacheExpiration  time.Duration `json:"cache_expiration,omitempty"`
	SnapshotLifetime time.Duration `json:"snapshot_lifetime,omitempty"`
	SnapshotToken    string        `json:"snapshot_token,omitempty"`
	EntityType       string        `json:"entity_type,omitempty"`
}

// NewOptions creates an empty options bag.
func NewOptions() *Options {
	return &Options{}
}

// WithPage sets the 1-based page number.
func (o *Options) WithPage(page int) *Options {
	o.Page = page
	return o
}

// WithLimit sets the page limit.
func (o *Options) WithLimit(limit int) *Options {
	o.Limit = limit
	return o
}

// WithCacheKey enables cache reads and writes under the given key.
func (o *Options) WithCacheKey(key string, expiration time.Duration) *Options {
	o.CacheKey = key
	o.ReadCache = true
	o.WriteCache = true
	o.CacheExpiration = expiration
	return o
}

// WithReadCache toggles cache reads.
func (o *Options) WithReadCache(enabled bool) *Options {
	o.ReadCache = enabled
	return o
}

// WithWriteCache toggles cache writes.
func (o *Options) WithWriteCache(enabled bool) *Options {
	o.WriteCache = enabled
	return o
}

// WithSnapshotPaging switches the call into cursor mode with the given
// server-side scan lifetime.
func (o *Options) WithSnapshotPaging(lifetime time.Duration) *Options {
	o.SnapshotLifetime = lifetime
	return o
}

// WithSnapshotToken continues a cursor-paged sequence from the token
// returned by the previous call.
func (o *Options) WithSnapshotToken(token string) *Options {
	o.SnapshotToken = token
	if o.SnapshotLifetime == 0 {
		o.SnapshotLifetime = DefaultSnapshotLifetime
	}
	return o
}

// Clone returns a copy so continuations can adjust paging state without
// touching the caller's options.
func (o *Options) Clone() *Options {
	if o == nil {
		return NewOptions()
	}
	out := *o
	return &out
}

// HasPageLimit reports whether an explicit page limit was set.
func (o *Options) HasPageLimit() bool {
	return o.Limit > 0
}

// GetLimit returns the effective page limit, capped at MaxLimit and
// defaulting to DefaultLimit when unset.
func (o *Options) GetLimit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	if o.Limit > MaxLimit {
		return MaxLimit
	}
	return o.Limit
}

// GetPage returns the effective 1-based page number.
func (o *Options) GetPage() int {
	if o.Page < 1 {
		return 1
	}
	return o.Page
}

// UsesSnapshotPaging reports whether the call is in cursor mode.
func (o *Options) UsesSnapshotPaging() bool {
	return o.SnapshotLifetime > 0 || o.SnapshotToken != ""
}

// HasSnapshotToken reports whether a continuation token is present.
func (o *Options) HasSnapshotToken() bool {
	return o.SnapshotToken != ""
}

// GetSnapshotLifetime returns the effective scan lifetime.
func (o *Options) GetSnapshotLifetime() time.Duration {
	if o.SnapshotLifetime <= 0 {
		return DefaultSnapshotLifetime
	}
	return o.SnapshotLifetime
}

// HasCacheKey reports whether a cache key is present.
func (o *Options) HasCacheKey() bool {
	return o.CacheKey != ""
}

// ShouldUseCache reports whether any caching applies to this call: caching
// enabled in at least one direction and a cache key present.
func (o *Options) ShouldUseCache() bool {
	return (o.ReadCache || o.WriteCache) && o.HasCacheKey()
}

// ShouldReadCache is the stricter read condition: reads enabled, a cache
// key present, and not in cursor mode. Scroll state is single-reader
// sequential, so cursor-paged results never come from cache.
func (o *Options) ShouldReadCache() bool {
	return o.ReadCache && o.HasCacheKey() && !o.UsesSnapshotPaging()
}

// ShouldWriteCache reports whether results may be written through to cache.
// Cursor-paged results are never cached.
func (o *Options) ShouldWriteCache() bool {
	return o.WriteCache && o.HasCacheKey() && !o.UsesSnapshotPaging()
}

// GetExpiration returns the cache expiration, falling back to the given
// default when unset.
func (o *Options) GetExpiration(fallback time.Duration) time.Duration {
	if o.CacheExpiration > 0 {
		return o.CacheExpiration
	}
	return fallback
}

// Validate checks the options for structural misuse.
func (o *Options) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.Page, validation.Min(0)),
		validation.Field(&o.Limit, validation.Min(0), validation.Max(MaxLimit)),
		validation.Field(&o.SnapshotLifetime, validation.Min(time.Duration(0))),
		validation.Field(&o.CacheExpiration, validation.Min(time.Duration(0))),
	)
}
