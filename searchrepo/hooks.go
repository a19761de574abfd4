package searchrepo

import (
	"context"

	"github.com/goliatone/go-repository-search/cache"
	repoerrors "github.com/goliatone/go-repository-search/errors"
	"github.com/goliatone/go-repository-search/query"
)

// QueryHook observes and may adjust the working copy of a query before it
// is executed. Hooks run in registration order, after default field
// exclusions and before soft-delete masking.
type QueryHook func(ctx context.Context, q *query.Query, opts *query.Options) error

// OnBeforeQuery registers a pre-query hook. Not safe to call concurrently
// with reads; register hooks during setup.
func (r *Repository[T]) OnBeforeQuery(hook QueryHook) {
	r.hooks = append(r.hooks, hook)
}

// MarkSoftDeleted adds ids to the cache-resident tombstone set so
// subsequent reads exclude them. This is the hand-off point for the
// external write path; it is a no-op when the entity does not support soft
// deletes or no cache is configured.
func (r *Repository[T]) MarkSoftDeleted(ctx context.Context, ids ...query.Id) error {
	if !r.desc.SupportsSoftDeletes {
		return repoerrors.NewUnsupportedCapabilityError(r.desc.Name, "SupportsSoftDeletes", "MarkSoftDeleted")
	}
	if r.cache == nil || len(ids) == 0 {
		return nil
	}
	members := make([]string, 0, len(ids))
	for _, id := range ids {
		if !id.IsEmpty() {
			members = append(members, id.Value)
		}
	}
	return r.cache.AddMembers(ctx, cache.DeletedSetKey, r.ttl, members...)
}

// UnmarkSoftDeleted removes ids from the tombstone set, e.g. after an
// undelete or once physical removal has propagated.
func (r *Repository[T]) UnmarkSoftDeleted(ctx context.Context, ids ...query.Id) error {
	if !r.desc.SupportsSoftDeletes {
		return repoerrors.NewUnsupportedCapabilityError(r.desc.Name, "SupportsSoftDeletes", "UnmarkSoftDeleted")
	}
	if r.cache == nil || len(ids) == 0 {
		return nil
	}
	members := make([]string, 0, len(ids))
	for _, id := range ids {
		if !id.IsEmpty() {
			members = append(members, id.Value)
		}
	}
	return r.cache.RemoveMembers(ctx, cache.DeletedSetKey, members...)
}

// InvalidateCache drops the point-lookup cache entries for the given ids.
// The external write path calls this on every mutation it owns.
func (r *Repository[T]) InvalidateCache(ctx context.Context, ids []query.Id) error {
	if ids == nil {
		return repoerrors.NewInvalidArgumentError("ids", "must not be nil")
	}
	if r.cache == nil || len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if !id.IsEmpty() {
			keys = append(keys, id.Value)
		}
	}
	return r.cache.Remove(ctx, keys...)
}
