// Package index resolves which backend index or indices, and which routing
// key, apply to a query or document id based on entity capability flags.
package index

import (
	"github.com/goliatone/go-repository-search/entity"
	"github.com/goliatone/go-repository-search/query"
)

// Target is the resolved destination of a backend request.
type Target struct {
	// Indices are the candidate indices, possibly a single wildcard
	// expression for scatter access to a time-partitioned family.
	Indices []string

	// Routing narrows the request to the partition holding a parent, when
	// known. Empty routing on a parent/child entity means scatter access.
	Routing string
}

// IsScatter reports whether the target covers more than one physical
// location: multiple candidate indices, a wildcard expression, or a
// parent/child read without routing narrowing.
func (t Target) IsScatter() bool {
	if len(t.Indices) != 1 {
		return true
	}
	for _, c := range t.Indices[0] {
		if c == '*' {
			return true
		}
	}
	return false
}

// ForQuery resolves the index set for a search. Plain entities always read
// one fixed index. Time-partitioned families narrow by the query's implied
// time range when present and otherwise fall back to the wildcard covering
// every partition, the documented costlier path of that capability.
func ForQuery(d entity.Descriptor, q *query.Query) Target {
	if !d.HasMultipleIndexes || d.Partitions == nil {
		return Target{Indices: []string{d.Index}}
	}
	if q != nil && q.Range != nil {
		if indices := d.Partitions.IndexesForRange(q.Range.From, q.Range.To); len(indices) > 0 {
			return Target{Indices: indices}
		}
	}
	return Target{Indices: []string{d.Partitions.Wildcard()}}
}

// ForId resolves the target for a point lookup by id. The second return
// value reports whether a direct (non-scatter) lookup is possible: it
// requires a single concrete index and, for parent/child entities, an
// explicit routing key on the id.
func ForId(d entity.Descriptor, id query.Id) (Target, bool) {
	t := Target{Routing: id.Routing}
	if d.HasMultipleIndexes && d.Partitions != nil {
		// Without a time hint an id could live in any partition.
		t.Indices = []string{d.Partitions.Wildcard()}
		return t, false
	}
	t.Indices = []string{d.Index}
	if d.HasParent && !id.HasRouting() {
		return t, false
	}
	return t, true
}
