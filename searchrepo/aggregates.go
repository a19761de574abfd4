package searchrepo

import (
	"context"

	"github.com/goliatone/go-repository-search/cache"
	"github.com/goliatone/go-repository-search/query"
)

// Count runs a zero-result-row search solely to obtain a total and any
// aggregations. Cached like Find, under the count-tagged key. A
// 404-equivalent reply is an empty count, not an error.
func (r *Repository[T]) Count(ctx context.Context, q *query.Query, opts *query.Options) (*query.CountResult, error) {
	o, err := r.normalize(q, opts)
	if err != nil {
		return nil, err
	}
	wq, err := r.prepareQuery(ctx, q, o)
	if err != nil {
		return nil, err
	}

	if r.shouldReadCache(ctx, o) {
		key := cache.CountKey(o.CacheKey)
		var cached query.CountResult
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
	req.Size = 0
	req.CountOnly = true

	resp, err := r.translateSearch(r.backend.Search(ctx, req))
	if err != nil {
		return nil, err
	}

	res := &query.CountResult{Total: resp.Total, Aggregations: resp.Aggregations}

	if r.shouldWriteCache(ctx, o) {
		key := cache.CountKey(o.CacheKey)
		if err := r.cache.Set(ctx, key, res, o.GetExpiration(r.ttl)); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return res, nil
}

// Exists probes whether any document matches the query, using a
// zero-result-row search. A 404-equivalent reply is false, not an error.
func (r *Repository[T]) Exists(ctx context.Context, q *query.Query, opts *query.Options) (bool, error) {
	o, err := r.normalize(q, opts)
	if err != nil {
		return false, err
	}
	wq, err := r.prepareQuery(ctx, q, o)
	if err != nil {
		return false, err
	}

	req, err := r.buildRequest(wq, o)
	if err != nil {
		return false, err
	}
	req.Size = 0
	req.CountOnly = true

	resp, err := r.translateSearch(r.backend.Search(ctx, req))
	if err != nil {
		return false, err
	}
	return resp.Total > 0, nil
}
