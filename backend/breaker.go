package backend

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// breakerClient decorates a Client with a circuit breaker so a misbehaving
// cluster sheds load fast instead of queueing calls. The read path itself
// never retries; the breaker only short-circuits while the backend is
// known to be down.
type breakerClient struct {
	inner Client
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps a client in a circuit breaker using the given settings.
func WithBreaker(inner Client, settings gobreaker.Settings) Client {
	return &breakerClient{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

func execute[R any](cb *gobreaker.CircuitBreaker, fn func() (*R, error)) (*R, error) {
	out, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return out.(*R), nil
}

func (b *breakerClient) Search(ctx context.Context, req *Request) (*SearchResponse, error) {
	return execute(b.cb, func() (*SearchResponse, error) {
		return b.inner.Search(ctx, req)
	})
}

func (b *breakerClient) OpenScroll(ctx context.Context, req *Request) (*SearchResponse, error) {
	return execute(b.cb, func() (*SearchResponse, error) {
		return b.inner.OpenScroll(ctx, req)
	})
}

func (b *breakerClient) ContinueScroll(ctx context.Context, scrollId string, lifetime time.Duration) (*SearchResponse, error) {
	return execute(b.cb, func() (*SearchResponse, error) {
		return b.inner.ContinueScroll(ctx, scrollId, lifetime)
	})
}

func (b *breakerClient) Get(ctx context.Context, index, id, routing string) (*GetResponse, error) {
	return execute(b.cb, func() (*GetResponse, error) {
		return b.inner.Get(ctx, index, id, routing)
	})
}

func (b *breakerClient) MultiGet(ctx context.Context, refs []DocRef) (*MultiGetResponse, error) {
	return execute(b.cb, func() (*MultiGetResponse, error) {
		return b.inner.MultiGet(ctx, refs)
	})
}
