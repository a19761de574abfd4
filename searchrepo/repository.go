package searchrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goliatone/go-repository-search/backend"
	"github.com/goliatone/go-repository-search/cache"
	"github.com/goliatone/go-repository-search/entity"
	repoerrors "github.com/goliatone/go-repository-search/errors"
	"github.com/goliatone/go-repository-search/index"
	"github.com/goliatone/go-repository-search/query"
	"github.com/rs/zerolog"
)

// Repository is the generic read engine in front of the search backend.
// It holds no cross-call session state; everything needed to resume a
// paged read lives in the returned Results and the caller's Options, so
// arbitrarily many calls may run concurrently. The read path performs no
// retries; that discipline belongs to the job layer.
type Repository[T any] struct {
	backend backend.Client
	builder backend.RequestBuilder
	cache   *cache.ScopedCache
	desc    entity.Descriptor
	log     zerolog.Logger
	ttl     time.Duration

	excludeFields []string
	hooks         []QueryHook
}

// New constructs a repository for the entity type cfg.Descriptor describes.
func New[T any](cfg Config) (*Repository[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("entity", cfg.Descriptor.Name).Logger()
	}

	builder := cfg.Builder
	if builder == nil {
		builder = backend.PassthroughBuilder{}
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	r := &Repository[T]{
		backend:       cfg.Backend,
		builder:       builder,
		desc:          cfg.Descriptor,
		log:           log,
		ttl:           ttl,
		excludeFields: append([]string(nil), cfg.ExcludeFields...),
	}
	if cfg.Cache != nil {
		r.cache = cache.NewScopedCache(cfg.Cache, cfg.Descriptor.CacheScope(), log)
	}
	return r, nil
}

// Descriptor returns the capability descriptor this repository serves.
func (r *Repository[T]) Descriptor() entity.Descriptor {
	return r.desc
}

// Find executes a paged search. Offset mode is restartable page by page;
// cursor mode (snapshot options) advances strictly sequentially via the
// token on the returned Results.
func (r *Repository[T]) Find(ctx context.Context, q *query.Query, opts *query.Options) (*query.Results[T], error) {
	o, err := r.normalize(q, opts)
	if err != nil {
		return nil, err
	}
	wq, err := r.prepareQuery(ctx, q, o)
	if err != nil {
		return nil, err
	}

	if r.shouldReadCache(ctx, o) {
		key := cache.FindPageKey(o.CacheKey, o.GetPage(), o.GetLimit())
		var cached query.Results[T]
		ok, err := r.cache.Get(ctx, key, &cached)
		if err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling through to backend")
		} else if ok {
			r.log.Debug().Str("key", key).Msg("find served from cache")
			// The continuation of a cached copy derives from the cached
			// page fields, not from whichever call populated the entry.
			r.bindNext(&cached, q, o)
			return &cached, nil
		}
	}

	var res *query.Results[T]
	if o.UsesSnapshotPaging() {
		res, err = r.findCursor(ctx, wq, o)
	} else {
		res, err = r.findOffset(ctx, wq, o)
	}
	if err != nil {
		return nil, err
	}

	if r.shouldWriteCache(ctx, o) {
		key := cache.FindPageKey(o.CacheKey, res.Page, res.Limit)
		if err := r.cache.Set(ctx, key, res, o.GetExpiration(r.ttl)); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}

	r.bindNext(res, q, o)
	return res, nil
}

// FindOne executes the same cache and hook pipeline as Find but requests
// exactly one row and never attaches pagination. Returns (nil, nil) when
// nothing matches.
func (r *Repository[T]) FindOne(ctx context.Context, q *query.Query, opts *query.Options) (*query.Hit[T], error) {
	o, err := r.normalize(q, opts)
	if err != nil {
		return nil, err
	}
	wq, err := r.prepareQuery(ctx, q, o)
	if err != nil {
		return nil, err
	}

	if r.shouldReadCache(ctx, o) {
		key := cache.FindOneKey(o.CacheKey)
		var cached query.Hit[T]
		ok, err := r.cache.Get(ctx, key, &cached)
		if err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling through to backend")
		} else if ok {
			return &cached, nil
		}
	}

	req, err := r.buildRequest(wq, o)
	if err != nil {
		return nil, err
	}
	req.Size = 1

	resp, err := r.translateSearch(r.backend.Search(ctx, req))
	if err != nil {
		return nil, err
	}
	hits, err := decodeHits[T](resp.Hits)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	hit := hits[0]
	if r.shouldWriteCache(ctx, o) {
		key := cache.FindOneKey(o.CacheKey)
		if err := r.cache.Set(ctx, key, hit, o.GetExpiration(r.ttl)); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return &hit, nil
}

func (r *Repository[T]) findOffset(ctx context.Context, wq *query.Query, o *query.Options) (*query.Results[T], error) {
	req, err := r.buildRequest(wq, o)
	if err != nil {
		return nil, err
	}
	limit := o.GetLimit()
	page := o.GetPage()
	req.Size = limit
	req.From = (page - 1) * limit

	resp, err := r.translateSearch(r.backend.Search(ctx, req))
	if err != nil {
		return nil, err
	}
	hits, err := decodeHits[T](resp.Hits)
	if err != nil {
		return nil, err
	}

	return &query.Results[T]{
		Hits:  hits,
		Total: resp.Total,
		Page:  page,
		Limit: limit,
		// A full page means there may be more. This can false-positive on
		// an exact-boundary result set; the page after the boundary comes
		// back empty with HasMore unset.
		HasMore: len(hits) >= limit,
	}, nil
}

func (r *Repository[T]) findCursor(ctx context.Context, wq *query.Query, o *query.Options) (*query.Results[T], error) {
	limit := o.GetLimit()

	var resp *backend.SearchResponse
	var err error
	if o.HasSnapshotToken() {
		// An expired token and an exhausted scan both come back as
		// not-found; the translation below turns either into "no more
		// pages" for the caller.
		resp, err = r.translateSearch(r.backend.ContinueScroll(ctx, o.SnapshotToken, o.GetSnapshotLifetime()))
	} else {
		var req *backend.Request
		req, err = r.buildRequest(wq, o)
		if err != nil {
			return nil, err
		}
		req.Size = limit
		req.ScrollLifetime = o.GetSnapshotLifetime()
		resp, err = r.translateSearch(r.backend.OpenScroll(ctx, req))
	}
	if err != nil {
		return nil, err
	}

	hits, err := decodeHits[T](resp.Hits)
	if err != nil {
		return nil, err
	}

	return &query.Results[T]{
		Hits:    hits,
		Total:   resp.Total,
		Page:    o.GetPage(),
		Limit:   limit,
		HasMore: len(hits) >= limit,
		Cursor:  resp.ScrollId,
	}, nil
}

// bindNext attaches the continuation at hand-off time. The next call is an
// independent invocation: it derives solely from the result's own page or
// cursor fields plus the caller's query, so a result deserialized from
// cache behaves the same as a fresh one.
func (r *Repository[T]) bindNext(res *query.Results[T], q *query.Query, o *query.Options) {
	res.BindNextPage(func(ctx context.Context) (*query.Results[T], error) {
		next := o.Clone()
		if res.Cursor != "" {
			next.SnapshotToken = res.Cursor
		} else {
			next.SnapshotToken = ""
			next.SnapshotLifetime = 0
			next.Page = res.Page + 1
			next.Limit = res.Limit
		}
		return r.Find(ctx, q, next)
	})
}

// normalize validates the caller's options and returns a copy carrying the
// target-type descriptor. The caller's objects are never mutated.
func (r *Repository[T]) normalize(q *query.Query, opts *query.Options) (*query.Options, error) {
	if q == nil {
		return nil, repoerrors.NewInvalidArgumentError("query", "must not be nil")
	}
	o := opts.Clone()
	if err := o.Validate(); err != nil {
		return nil, repoerrors.NewInvalidArgumentError("options", err.Error())
	}
	o.EntityType = r.desc.Name
	return o, nil
}

// prepareQuery runs the pre-query pipeline on a defensive copy: default
// field exclusions, registered hooks, then soft-delete masking.
func (r *Repository[T]) prepareQuery(ctx context.Context, q *query.Query, o *query.Options) (*query.Query, error) {
	wq := q.Clone()

	if len(wq.Fields) == 0 && len(wq.ExcludeFields) == 0 && len(r.excludeFields) > 0 {
		wq.ExcludeFields = append([]string(nil), r.excludeFields...)
	}

	for _, hook := range r.hooks {
		if err := hook(ctx, wq, o); err != nil {
			return nil, err
		}
	}

	if r.desc.SupportsSoftDeletes && r.cache != nil && !cacheBypassed(ctx) {
		tombstones, err := r.cache.SetMembers(ctx, cache.DeletedSetKey)
		if err != nil {
			// Best effort: a missing tombstone set means deleted documents
			// may transiently reappear until the write path repopulates it.
			r.log.Warn().Err(err).Msg("tombstone set unavailable, results may include soft-deleted documents")
		}
		for _, id := range tombstones {
			wq.WithExcludedIds(query.NewId(id))
		}
	}

	return wq, nil
}

func (r *Repository[T]) buildRequest(wq *query.Query, o *query.Options) (*backend.Request, error) {
	target := index.ForQuery(r.desc, wq)
	req, err := r.builder.Build(wq, o, target)
	if err != nil {
		return nil, repoerrors.NewInvalidArgumentError("query", err.Error())
	}
	return req, nil
}

func (r *Repository[T]) shouldReadCache(ctx context.Context, o *query.Options) bool {
	return r.cache != nil && o.ShouldReadCache() && !cacheBypassed(ctx)
}

func (r *Repository[T]) shouldWriteCache(ctx context.Context, o *query.Options) bool {
	return r.cache != nil && o.ShouldWriteCache() && !cacheBypassed(ctx)
}

// translateSearch normalizes a backend search reply: transport errors and
// invalid responses become BackendErrors, while the 404-equivalent becomes
// an empty successful response.
func (r *Repository[T]) translateSearch(resp *backend.SearchResponse, err error) (*backend.SearchResponse, error) {
	if err != nil {
		return nil, repoerrors.NewBackendError(0, "search request failed", err)
	}
	if resp.IsNotFound() {
		return &backend.SearchResponse{Response: backend.Response{Status: 200}}, nil
	}
	if !resp.IsValid() {
		return nil, repoerrors.NewBackendError(resp.Status, resp.Message, resp.Cause)
	}
	return resp, nil
}

func decodeHits[T any](hits []backend.DocumentHit) ([]query.Hit[T], error) {
	out := make([]query.Hit[T], 0, len(hits))
	for _, h := range hits {
		var doc T
		if len(h.Source) > 0 {
			if err := json.Unmarshal(h.Source, &doc); err != nil {
				return nil, repoerrors.NewBackendError(0, "undecodable document source", err)
			}
		}
		out = append(out, query.Hit[T]{
			Id:      h.Id,
			Routing: h.Routing,
			Score:   h.Score,
			Version: h.Version,
			Source:  doc,
		})
	}
	return out, nil
}
