package searchrepo

import (
	"context"
	"encoding/json"

	"github.com/goliatone/go-repository-search/backend"
	repoerrors "github.com/goliatone/go-repository-search/errors"
	"github.com/goliatone/go-repository-search/index"
	"github.com/goliatone/go-repository-search/query"
)

// GetByID fetches one document by id. With routing known (or not needed)
// this is a direct point lookup; for a parent/child entity without a
// routing key, or a time-partitioned family, it degrades to a scatter
// find-one filtered by id. Returns (nil, nil) when the document does not
// exist.
func (r *Repository[T]) GetByID(ctx context.Context, id query.Id, opts *query.Options) (*T, error) {
	if id.IsEmpty() {
		return nil, repoerrors.NewInvalidArgumentError("id", "must not be empty")
	}
	o := opts.Clone()
	o.EntityType = r.desc.Name

	if r.pointReadCache(ctx, o) {
		var doc T
		ok, err := r.cache.Get(ctx, id.Value, &doc)
		if err != nil {
			r.log.Warn().Err(err).Str("id", id.Value).Msg("cache read failed, falling through to backend")
		} else if ok {
			r.log.Debug().Str("id", id.Value).Msg("point lookup served from cache")
			return &doc, nil
		}
	}

	var doc *T
	target, direct := index.ForId(r.desc, id)
	if direct {
		resp, err := r.backend.Get(ctx, target.Indices[0], id.Value, id.Routing)
		if err != nil {
			return nil, repoerrors.NewBackendError(0, "get request failed", err)
		}
		switch {
		case resp.IsNotFound() || (resp.IsValid() && !resp.Hit.Found):
			return nil, nil
		case !resp.IsValid():
			return nil, repoerrors.NewBackendError(resp.Status, resp.Message, resp.Cause)
		}
		var decoded T
		if err := json.Unmarshal(resp.Hit.Source, &decoded); err != nil {
			return nil, repoerrors.NewBackendError(0, "undecodable document source", err)
		}
		doc = &decoded
	} else {
		// Routing unknown: a scatter find-one by id. Strictly more
		// expensive than the direct lookup, which is the accepted cost of
		// reading a parent-scoped or partitioned document blind.
		hit, err := r.FindOne(ctx, query.New().WithIds(id), query.NewOptions())
		if err != nil {
			return nil, err
		}
		if hit == nil {
			return nil, nil
		}
		doc = &hit.Source
	}

	if r.pointWriteCache(ctx, o) {
		if err := r.cache.Set(ctx, id.Value, *doc, o.GetExpiration(r.ttl)); err != nil {
			r.log.Warn().Err(err).Str("id", id.Value).Msg("cache write failed")
		}
	}
	return doc, nil
}

// GetByIds fetches a batch of documents. Ids are deduplicated and empty
// ids dropped; an empty input returns immediately without touching the
// network. The result has set semantics: each found document exactly once,
// nothing for ids that do not exist, ordering unspecified.
func (r *Repository[T]) GetByIds(ctx context.Context, ids []query.Id, opts *query.Options) ([]T, error) {
	if !r.desc.HasIdentity {
		return nil, repoerrors.NewUnsupportedCapabilityError(r.desc.Name, "HasIdentity", "GetByIds")
	}
	o := opts.Clone()
	o.EntityType = r.desc.Name

	seen := make(map[string]struct{}, len(ids))
	wanted := make([]query.Id, 0, len(ids))
	for _, id := range ids {
		if id.IsEmpty() {
			continue
		}
		if _, dup := seen[id.Value]; dup {
			continue
		}
		seen[id.Value] = struct{}{}
		wanted = append(wanted, id)
	}
	if len(wanted) == 0 {
		return []T{}, nil
	}

	found := make(map[string]T, len(wanted))

	if r.pointReadCache(ctx, o) {
		keys := make([]string, len(wanted))
		for i, id := range wanted {
			keys[i] = id.Value
		}
		raw, err := r.cache.GetAll(ctx, keys)
		if err != nil {
			r.log.Warn().Err(err).Msg("cache batch read failed, falling through to backend")
		}
		for id, data := range raw {
			var doc T
			if err := json.Unmarshal(data, &doc); err != nil {
				continue
			}
			found[id] = doc
		}
	}

	var direct, fallback []query.Id
	for _, id := range wanted {
		if _, hit := found[id.Value]; hit {
			continue
		}
		switch {
		case r.desc.HasMultipleIndexes:
			// Resolving an id inside a partitioned family needs the
			// wildcard scatter below.
			fallback = append(fallback, id)
		case !r.desc.HasParent || id.HasRouting():
			direct = append(direct, id)
		default:
			fallback = append(fallback, id)
		}
	}

	fetched := make([]query.Id, 0, len(direct)+len(fallback))

	if len(direct) > 0 {
		refs := make([]backend.DocRef, len(direct))
		for i, id := range direct {
			target, _ := index.ForId(r.desc, id)
			refs[i] = backend.DocRef{Index: target.Indices[0], Id: id.Value, Routing: id.Routing}
		}
		resp, err := r.backend.MultiGet(ctx, refs)
		if err != nil {
			return nil, repoerrors.NewBackendError(0, "multi-get request failed", err)
		}
		if !resp.IsValid() && !resp.IsNotFound() {
			return nil, repoerrors.NewBackendError(resp.Status, resp.Message, resp.Cause)
		}
		for _, d := range resp.Docs {
			if !d.Found {
				continue
			}
			var doc T
			if err := json.Unmarshal(d.Source, &doc); err != nil {
				return nil, repoerrors.NewBackendError(0, "undecodable document source", err)
			}
			found[d.Id] = doc
			fetched = append(fetched, query.Id{Value: d.Id, Routing: d.Routing})
		}
	}

	if len(fallback) > 0 {
		// One id-filtered find with a large page, drained to exhaustion.
		q := query.New().WithIds(fallback...)
		res, err := r.Find(ctx, q, query.NewOptions().WithLimit(query.MaxLimit))
		for {
			if err != nil {
				return nil, err
			}
			for _, h := range res.Hits {
				if _, dup := found[h.Id]; dup {
					continue
				}
				found[h.Id] = h.Source
				fetched = append(fetched, query.Id{Value: h.Id, Routing: h.Routing})
			}
			if !res.HasMore {
				break
			}
			res, err = res.NextPage(ctx)
			if res == nil && err == nil {
				break
			}
		}
	}

	if r.pointWriteCache(ctx, o) && len(fetched) > 0 {
		ttl := o.GetExpiration(r.ttl)
		for _, id := range fetched {
			if err := r.cache.Set(ctx, id.Value, found[id.Value], ttl); err != nil {
				r.log.Warn().Err(err).Str("id", id.Value).Msg("cache write failed")
			}
		}
	}

	out := make([]T, 0, len(found))
	for _, id := range wanted {
		if doc, ok := found[id.Value]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// ExistsByID reports whether a document with the given id exists, without
// decoding it. A 404-equivalent reply is false, not an error.
func (r *Repository[T]) ExistsByID(ctx context.Context, id query.Id) (bool, error) {
	if id.IsEmpty() {
		return false, repoerrors.NewInvalidArgumentError("id", "must not be empty")
	}
	target, direct := index.ForId(r.desc, id)
	if direct {
		resp, err := r.backend.Get(ctx, target.Indices[0], id.Value, id.Routing)
		if err != nil {
			return false, repoerrors.NewBackendError(0, "get request failed", err)
		}
		if resp.IsNotFound() {
			return false, nil
		}
		if !resp.IsValid() {
			return false, repoerrors.NewBackendError(resp.Status, resp.Message, resp.Cause)
		}
		return resp.Hit.Found, nil
	}
	return r.Exists(ctx, query.New().WithIds(id), query.NewOptions())
}

// pointReadCache gates point-lookup cache reads: a cache layer configured,
// reads enabled on the options, and no context bypass. Point lookups cache
// by id, so no cache key is required.
func (r *Repository[T]) pointReadCache(ctx context.Context, o *query.Options) bool {
	return r.cache != nil && o.ReadCache && !cacheBypassed(ctx)
}

func (r *Repository[T]) pointWriteCache(ctx context.Context, o *query.Options) bool {
	return r.cache != nil && o.WriteCache && !cacheBypassed(ctx)
}
