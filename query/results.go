package query

import (
	"context"
	"encoding/json"
)

// Hit is a single matched document together with its relevance score, the
// storage version token when the entity supports versioning, and the
// routing key when the entity has a parent.
type Hit[T any] struct {
	Id      string  `json:"id"`
	Routing string  `json:"routing,omitempty"`
	Score   float64 `json:"score,omitempty"`
	Version int64   `json:"version,omitempty"`
	Source  T       `json:"source"`
}

// NextPageFunc advances a result set to its next page.
type NextPageFunc[T any] func(ctx context.Context) (*Results[T], error)

// Results is one page of matched documents plus the paging state needed to
// advance. HasMore is computed from whether the returned count reached the
// requested limit, not from Total, because backend totals may be
// approximate under certain query shapes.
//
// The bound next-page operation is plain data everywhere else: it lives in
// an unexported field the JSON codec skips, so a Results that round-trips
// through cache comes back without it and the engine re-binds a
// continuation derived from the cached page/cursor fields.
type Results[T any] struct {
	Hits    []Hit[T] `json:"hits"`
	Total   int64    `json:"total"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
	HasMore bool     `json:"has_more"`
	// Cursor is the opaque continuation token, present only in cursor mode.
	Cursor string `json:"cursor,omitempty"`

	next NextPageFunc[T]
}

// Documents returns the page's documents in order, without hit metadata.
func (r *Results[T]) Documents() []T {
	docs := make([]T, len(r.Hits))
	for i, h := range r.Hits {
		docs[i] = h.Source
	}
	return docs
}

// Len returns the number of hits on this page.
func (r *Results[T]) Len() int {
	return len(r.Hits)
}

// BindNextPage attaches the continuation for this result set. The engine
// calls it at hand-off time, both for fresh results and for results
// deserialized from cache.
func (r *Results[T]) BindNextPage(next NextPageFunc[T]) {
	r.next = next
}

// NextPage fetches the next page using the bound continuation. It returns
// (nil, nil) when there are no more pages or no continuation is bound.
// Cursor-paged sequences must be advanced strictly in order by a single
// caller; concurrent advancement of one cursor is caller misuse.
func (r *Results[T]) NextPage(ctx context.Context) (*Results[T], error) {
	if !r.HasMore || r.next == nil {
		return nil, nil
	}
	return r.next(ctx)
}

// MarshalBinary lets cache clients persist results directly.
func (r *Results[T]) MarshalBinary() ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalBinary restores a cached page. The continuation is intentionally
// absent afterwards; see BindNextPage.
func (r *Results[T]) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, r)
}

// CountResult is the outcome of a count operation: a total plus any
// aggregations the backend computed alongside it.
type CountResult struct {
	Total        int64                      `json:"total"`
	Aggregations map[string]json.RawMessage `json:"aggregations,omitempty"`
}
