package testsupport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-repository-search/backend"
	"github.com/google/uuid"
)

// SeedDoc is one document to seed into the fake backend.
type SeedDoc struct {
	Id      string
	Routing string
	Version int64
	Source  any
}

type storedDoc struct {
	id      string
	index   string
	routing string
	version int64
	source  json.RawMessage
}

type scrollState struct {
	docs    []storedDoc
	pos     int
	size    int
	expires time.Time
}

// FakeBackend is an in-memory implementation of backend.Client for tests.
// It honors index wildcards, routing, id filters and exclusion sets,
// offset windows and scroll emulation, counts calls per method, and can
// inject failures. Filter/search/sort expressions are carried but not
// interpreted; seeded insertion order is the result order.
type FakeBackend struct {
	mu      sync.Mutex
	docs    []storedDoc
	scrolls map[string]*scrollState
	calls   map[string]int

	failStatus  int
	failMessage string
	failErr     error
}

// NewFakeBackend creates an empty fake backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		scrolls: make(map[string]*scrollState),
		calls:   make(map[string]int),
	}
}

// Seed adds documents to an index in order.
func (b *FakeBackend) Seed(index string, docs ...SeedDoc) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range docs {
		raw, err := json.Marshal(d.Source)
		if err != nil {
			return fmt.Errorf("seed %s/%s: %w", index, d.Id, err)
		}
		b.docs = append(b.docs, storedDoc{
			id:      d.Id,
			index:   index,
			routing: d.Routing,
			version: d.Version,
			source:  raw,
		})
	}
	return nil
}

// Remove deletes a document, emulating the external write path.
func (b *FakeBackend) Remove(index, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.docs[:0]
	for _, d := range b.docs {
		if d.index == index && d.id == id {
			continue
		}
		kept = append(kept, d)
	}
	b.docs = kept
}

// Calls returns how many times the named client method was invoked.
func (b *FakeBackend) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

// FailNextWith makes the next call return an invalid response with the
// given status and message.
func (b *FakeBackend) FailNextWith(status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failStatus = status
	b.failMessage = message
}

// FailNextErr makes the next call return a transport-level error.
func (b *FakeBackend) FailNextErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failErr = err
}

// ExpireScrolls invalidates every open scroll, emulating lifetime expiry.
func (b *FakeBackend) ExpireScrolls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.scrolls {
		s.expires = time.Time{}
	}
}

func (b *FakeBackend) takeFailure() (int, string, error) {
	status, msg, err := b.failStatus, b.failMessage, b.failErr
	b.failStatus, b.failMessage, b.failErr = 0, "", nil
	return status, msg, err
}

func matchIndex(patterns []string, index string) bool {
	for _, p := range patterns {
		if i := strings.IndexByte(p, '*'); i >= 0 {
			if strings.HasPrefix(index, p[:i]) {
				return true
			}
		} else if p == index {
			return true
		}
	}
	return false
}

func (b *FakeBackend) match(req *backend.Request) []storedDoc {
	var wanted map[string]struct{}
	if len(req.Ids) > 0 {
		wanted = make(map[string]struct{}, len(req.Ids))
		for _, id := range req.Ids {
			wanted[id] = struct{}{}
		}
	}
	excluded := make(map[string]struct{}, len(req.ExcludedIds))
	for _, id := range req.ExcludedIds {
		excluded[id] = struct{}{}
	}

	var out []storedDoc
	for _, d := range b.docs {
		if !matchIndex(req.Indices, d.index) {
			continue
		}
		if req.Routing != "" && d.routing != req.Routing {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[d.id]; !ok {
				continue
			}
		}
		if _, ok := excluded[d.id]; ok {
			continue
		}
		out = append(out, d)
	}
	return out
}

func toHits(docs []storedDoc) []backend.DocumentHit {
	hits := make([]backend.DocumentHit, len(docs))
	for i, d := range docs {
		hits[i] = backend.DocumentHit{
			Id:      d.id,
			Index:   d.index,
			Routing: d.routing,
			Score:   1,
			Version: d.version,
			Found:   true,
			Source:  d.source,
		}
	}
	return hits
}

func window(docs []storedDoc, from, size int) []storedDoc {
	if from >= len(docs) {
		return nil
	}
	end := from + size
	if size <= 0 || end > len(docs) {
		end = len(docs)
	}
	return docs[from:end]
}

func (b *FakeBackend) Search(ctx context.Context, req *backend.Request) (*backend.SearchResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["Search"]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if status, msg, err := b.takeFailure(); err != nil {
		return nil, err
	} else if status != 0 {
		return &backend.SearchResponse{Response: backend.Response{Status: status, Message: msg}}, nil
	}

	matched := b.match(req)
	resp := &backend.SearchResponse{
		Response: backend.Response{Status: 200},
		Total:    int64(len(matched)),
	}
	if !req.CountOnly {
		resp.Hits = toHits(window(matched, req.From, req.Size))
	}
	return resp, nil
}

func (b *FakeBackend) OpenScroll(ctx context.Context, req *backend.Request) (*backend.SearchResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["OpenScroll"]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if status, msg, err := b.takeFailure(); err != nil {
		return nil, err
	} else if status != 0 {
		return &backend.SearchResponse{Response: backend.Response{Status: status, Message: msg}}, nil
	}

	matched := b.match(req)
	token := uuid.NewString()
	state := &scrollState{
		docs:    matched,
		pos:     req.Size,
		size:    req.Size,
		expires: time.Now().Add(req.ScrollLifetime),
	}
	b.scrolls[token] = state

	return &backend.SearchResponse{
		Response: backend.Response{Status: 200},
		Hits:     toHits(window(matched, 0, req.Size)),
		Total:    int64(len(matched)),
		ScrollId: token,
	}, nil
}

func (b *FakeBackend) ContinueScroll(ctx context.Context, scrollId string, lifetime time.Duration) (*backend.SearchResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["ContinueScroll"]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, ok := b.scrolls[scrollId]
	if !ok || time.Now().After(state.expires) {
		return &backend.SearchResponse{
			Response: backend.Response{Status: 404, Message: "scroll expired or unknown"},
		}, nil
	}

	hits := toHits(window(state.docs, state.pos, state.size))
	state.pos += state.size
	state.expires = time.Now().Add(lifetime)

	return &backend.SearchResponse{
		Response: backend.Response{Status: 200},
		Hits:     hits,
		Total:    int64(len(state.docs)),
		ScrollId: scrollId,
	}, nil
}

func (b *FakeBackend) Get(ctx context.Context, index, id, routing string) (*backend.GetResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["Get"]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if status, msg, err := b.takeFailure(); err != nil {
		return nil, err
	} else if status != 0 {
		return &backend.GetResponse{Response: backend.Response{Status: status, Message: msg}}, nil
	}

	for _, d := range b.docs {
		if !matchIndex([]string{index}, d.index) || d.id != id {
			continue
		}
		if routing != "" && d.routing != routing {
			continue
		}
		return &backend.GetResponse{
			Response: backend.Response{Status: 200},
			Hit: backend.DocumentHit{
				Id: d.id, Index: d.index, Routing: d.routing,
				Version: d.version, Found: true, Source: d.source,
			},
		}, nil
	}
	return &backend.GetResponse{
		Response: backend.Response{Status: 404},
		Hit:      backend.DocumentHit{Id: id, Found: false},
	}, nil
}

func (b *FakeBackend) MultiGet(ctx context.Context, refs []backend.DocRef) (*backend.MultiGetResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["MultiGet"]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if status, msg, err := b.takeFailure(); err != nil {
		return nil, err
	} else if status != 0 {
		return &backend.MultiGetResponse{Response: backend.Response{Status: status, Message: msg}}, nil
	}

	resp := &backend.MultiGetResponse{Response: backend.Response{Status: 200}}
	for _, ref := range refs {
		hit := backend.DocumentHit{Id: ref.Id, Found: false}
		for _, d := range b.docs {
			if d.id != ref.Id || !matchIndex([]string{ref.Index}, d.index) {
				continue
			}
			if ref.Routing != "" && d.routing != ref.Routing {
				continue
			}
			hit = backend.DocumentHit{
				Id: d.id, Index: d.index, Routing: d.routing,
				Version: d.version, Found: true, Source: d.source,
			}
			break
		}
		resp.Docs = append(resp.Docs, hit)
	}
	return resp, nil
}
