package backend

import (
	"github.com/goliatone/go-repository-search/index"
	"github.com/goliatone/go-repository-search/query"
)

// RequestBuilder turns a finalized repository query and a resolved index
// target into a backend request. The full query-expression parser is an
// external collaborator; implementations of this interface are where it
// plugs in. Row size, offsets and scroll directives are owned by the
// engine's paging protocol and set after Build returns.
type RequestBuilder interface {
	Build(q *query.Query, opts *query.Options, target index.Target) (*Request, error)
}

// PassthroughBuilder is the default RequestBuilder: it carries the query's
// expressions into the request verbatim, leaving interpretation to the
// backend. Deployments with a query-expression parser substitute their own
// builder.
type PassthroughBuilder struct{}

// Build maps the query onto a request without rewriting any expression.
func (PassthroughBuilder) Build(q *query.Query, opts *query.Options, target index.Target) (*Request, error) {
	req := &Request{
		Indices: target.Indices,
		Routing: target.Routing,
	}
	if q == nil {
		return req, nil
	}

	req.Filter = q.Filter
	req.Search = q.Search
	req.Sort = q.Sort
	req.Aggregations = q.Aggregations
	req.SourceIncludes = append([]string(nil), q.Fields...)
	req.SourceExcludes = append([]string(nil), q.ExcludeFields...)
	for _, id := range q.Ids {
		req.Ids = append(req.Ids, id.Value)
	}
	for _, id := range q.ExcludedIds {
		req.ExcludedIds = append(req.ExcludedIds, id.Value)
	}
	return req, nil
}
