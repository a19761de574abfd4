// Package searchrepo implements the generic read repository in front of a
// distributed document search backend.
//
// # Overview
//
// Repository[T] exposes a uniform read API (Find, FindOne, GetByID,
// GetByIds, Count, Exists) backed by three cross-cutting mechanisms:
//
//   - a cache-aside layer coordinated through the cache package, with
//     point-lookup invalidation and soft-delete tombstone masking;
//   - a dual pagination protocol: restartable offset paging and strictly
//     sequential cursor (snapshot) paging;
//   - capability-driven index targeting via the entity and index packages
//     (plain, parent/child, time-partitioned document families).
//
// # Construction
//
//	repo, err := searchrepo.New[Order](searchrepo.Config{
//		Backend:    client,
//		Cache:      cacheClient,
//		Descriptor: entity.Descriptor{Name: "Order", Index: "orders", HasIdentity: true},
//	})
//
// # Paging
//
// Offset mode requests any page directly by number. Cursor mode opens a
// time-bounded server-side scan; each page carries the token for the next:
//
//	res, err := repo.Find(ctx, q, query.NewOptions().WithSnapshotPaging(time.Minute))
//	for res != nil {
//		// consume res.Hits
//		res, err = res.NextPage(ctx)
//	}
//
// HasMore is a returned-count-vs-limit heuristic in both modes; a result
// set produced in one mode never switches modes. Advancing one cursor from
// two goroutines concurrently is caller misuse: the engine does not
// serialize scroll state.
//
// # Error semantics
//
// A backend not-found is an empty (or false/absent) result, never an
// error. Any other invalid backend response surfaces as a BackendError
// carrying the backend's message and cause. Structural misuse (nil query,
// missing capability) fails fast before any I/O. The read path never
// retries.
package searchrepo
