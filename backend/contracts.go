// Package backend defines the wire-level contracts between the execution
// engine and the document search backend. The real client (request
// marshaling, connection management) lives outside this module; the engine
// only depends on these interfaces.
package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Request is the backend query descriptor: target indices, routing, row
// window, the computed filter/sort/aggregation clauses, and, for cursor
// mode, the scan directive with its lifetime.
type Request struct {
	Indices []string
	Routing string

	// Size is the number of rows requested; From is the offset-mode skip.
	Size int
	From int

	Filter       string
	Search       string
	Sort         string
	Aggregations string

	// Ids restricts matching to the given document ids; ExcludedIds
	// removes documents from the match regardless of the other clauses.
	Ids         []string
	ExcludedIds []string

	SourceIncludes []string
	SourceExcludes []string

	// CountOnly asks for a zero-result-row search that still computes the
	// total and any aggregations.
	CountOnly bool

	// ScrollLifetime, when positive, opens a server-side scan bounded by
	// this duration instead of an offset search.
	ScrollLifetime time.Duration
}

// Response is the part of every backend reply the engine inspects: a
// validity flag, the HTTP-equivalent status code, the backend's error
// message, and the underlying cause when one exists.
type Response struct {
	Status  int
	Message string
	Cause   error
}

// IsValid reports whether the reply carries a success status.
func (r Response) IsValid() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsNotFound reports the 404-equivalent condition, which read operations
// translate into empty results rather than errors.
func (r Response) IsNotFound() bool {
	return r.Status == http.StatusNotFound
}

// DocumentHit is one document in a backend reply.
type DocumentHit struct {
	Id      string
	Index   string
	Routing string
	Score   float64
	Version int64
	Found   bool
	Source  json.RawMessage
}

// SearchResponse is the reply to Search, OpenScroll and ContinueScroll.
type SearchResponse struct {
	Response
	Hits         []DocumentHit
	Total        int64
	ScrollId     string
	Aggregations map[string]json.RawMessage
}

// GetResponse is the reply to a point lookup.
type GetResponse struct {
	Response
	Hit DocumentHit
}

// MultiGetResponse is the reply to a batched point lookup. Every requested
// id appears in Docs with its Found flag set accordingly.
type MultiGetResponse struct {
	Response
	Docs []DocumentHit
}

// DocRef addresses one document in a multi-get.
type DocRef struct {
	Index   string
	Id      string
	Routing string
}

// Client is the backend search contract the engine calls. Implementations
// must honor context cancellation on every call. A reply with a non-nil
// error is a transport-level failure; backend-level failures come back as
// an invalid Response with error == nil.
type Client interface {
	// Search executes a bounded offset-mode search.
	Search(ctx context.Context, req *Request) (*SearchResponse, error)

	// OpenScroll starts a server-side scan; the reply carries the scroll
	// token for ContinueScroll.
	OpenScroll(ctx context.Context, req *Request) (*SearchResponse, error)

	// ContinueScroll advances a scan. An expired or unknown token yields a
	// 404-equivalent response.
	ContinueScroll(ctx context.Context, scrollId string, lifetime time.Duration) (*SearchResponse, error)

	// Get performs a direct point lookup.
	Get(ctx context.Context, index, id, routing string) (*GetResponse, error)

	// MultiGet performs a single batched point lookup.
	MultiGet(ctx context.Context, refs []DocRef) (*MultiGetResponse, error)
}
