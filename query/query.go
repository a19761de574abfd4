package query

import "time"

// Id identifies a document by value, with an optional routing key used when
// the document's physical location depends on a parent. Identity is the
// value alone; two Ids with equal values are the same document regardless
// of routing.
type Id struct {
	Value   string `json:"value"`
	Routing string `json:"routing,omitempty"`
}

// NewId creates an Id without routing.
func NewId(value string) Id {
	return Id{Value: value}
}

// NewRoutedId creates an Id carrying an explicit routing key.
func NewRoutedId(value, routing string) Id {
	return Id{Value: value, Routing: routing}
}

// IsEmpty reports whether the id has no value.
func (id Id) IsEmpty() bool {
	return id.Value == ""
}

// HasRouting reports whether the id carries an explicit routing key.
func (id Id) HasRouting() bool {
	return id.Routing != ""
}

// Equal compares ids by value only.
func (id Id) Equal(other Id) bool {
	return id.Value == other.Value
}

// TimeRange bounds a query to a time window. Time-partitioned entity
// families use it to narrow the candidate index set.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Query describes what to fetch: filter, free-text search, sort and
// aggregation expressions, an id filter, an exclusion set, and field
// include/exclude lists. Queries passed into the engine are treated as
// read-only; the engine takes defensive copies before combining them with
// system-level filters such as the soft-delete exclusion.
type Query struct {
	Filter        string     `json:"filter,omitempty"`
	Search        string     `json:"search,omitempty"`
	Sort          string     `json:"sort,omitempty"`
	Aggregations  string     `json:"aggregations,omitempty"`
	Ids           []Id       `json:"ids,omitempty"`
	ExcludedIds   []Id       `json:"excluded_ids,omitempty"`
	Fields        []string   `json:"fields,omitempty"`
	ExcludeFields []string   `json:"exclude_fields,omitempty"`
	Range         *TimeRange `json:"range,omitempty"`
}

// New creates an empty query.
func New() *Query {
	return &Query{}
}

// WithFilter sets the filter expression.
func (q *Query) WithFilter(expr string) *Query {
	q.Filter = expr
	return q
}

// WithSearch sets the free-text search expression.
func (q *Query) WithSearch(expr string) *Query {
	q.Search = expr
	return q
}

// WithSort sets the sort expression.
func (q *Query) WithSort(expr string) *Query {
	q.Sort = expr
	return q
}

// WithAggregations sets the aggregation expression.
func (q *Query) WithAggregations(expr string) *Query {
	q.Aggregations = expr
	return q
}

// WithIds restricts the query to the given document ids.
func (q *Query) WithIds(ids ...Id) *Query {
	q.Ids = append(q.Ids, ids...)
	return q
}

// WithExcludedIds adds ids to the exclusion set.
func (q *Query) WithExcludedIds(ids ...Id) *Query {
	q.ExcludedIds = append(q.ExcludedIds, ids...)
	return q
}

// WithFields limits the returned source to the given fields.
func (q *Query) WithFields(fields ...string) *Query {
	q.Fields = append(q.Fields, fields...)
	return q
}

// WithExcludeFields removes the given fields from the returned source.
func (q *Query) WithExcludeFields(fields ...string) *Query {
	q.ExcludeFields = append(q.ExcludeFields, fields...)
	return q
}

// WithRange bounds the query to a time window.
func (q *Query) WithRange(from, to time.Time) *Query {
	q.Range = &TimeRange{From: from, To: to}
	return q
}

// Clone returns a deep copy. The engine clones before injecting system
// filters so the caller's query is never mutated.
func (q *Query) Clone() *Query {
	if q == nil {
		return New()
	}
	out := *q
	out.Ids = append([]Id(nil), q.Ids...)
	out.ExcludedIds = append([]Id(nil), q.ExcludedIds...)
	out.Fields = append([]string(nil), q.Fields...)
	out.ExcludeFields = append([]string(nil), q.ExcludeFields...)
	if q.Range != nil {
		r := *q.Range
		out.Range = &r
	}
	return &out
}

// Merge combines a system-imposed query with a caller-supplied one into a
// fresh query (logical AND of the filters). Neither input is modified.
func Merge(system, user *Query) *Query {
	out := user.Clone()
	if system == nil {
		return out
	}
	switch {
	case out.Filter == "":
		out.Filter = system.Filter
	case system.Filter != "":
		out.Filter = "(" + system.Filter + ") AND (" + out.Filter + ")"
	}
	out.Ids = append(out.Ids, system.Ids...)
	out.ExcludedIds = append(out.ExcludedIds, system.ExcludedIds...)
	if out.Range == nil && system.Range != nil {
		r := *system.Range
		out.Range = &r
	}
	return out
}
