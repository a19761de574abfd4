package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-repository-search/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeBackendIndexWildcards(t *testing.T) {
	ctx := context.Background()
	be := NewFakeBackend()
	require.NoError(t, be.Seed("logs-2026.07", SeedDoc{Id: "a", Source: map[string]string{"v": "1"}}))
	require.NoError(t, be.Seed("logs-2026.08", SeedDoc{Id: "b", Source: map[string]string{"v": "2"}}))
	require.NoError(t, be.Seed("orders", SeedDoc{Id: "c", Source: map[string]string{"v": "3"}}))

	resp, err := be.Search(ctx, &backend.Request{Indices: []string{"logs-*"}, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)

	resp, err = be.Search(ctx, &backend.Request{Indices: []string{"logs-2026.08"}, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "b", resp.Hits[0].Id)
}

func TestFakeBackendRoutingFilter(t *testing.T) {
	ctx := context.Background()
	be := NewFakeBackend()
	require.NoError(t, be.Seed("orders",
		SeedDoc{Id: "l-1", Routing: "o-1", Source: map[string]string{}},
		SeedDoc{Id: "l-2", Routing: "o-2", Source: map[string]string{}},
	))

	resp, err := be.Search(ctx, &backend.Request{Indices: []string{"orders"}, Routing: "o-2", Size: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "l-2", resp.Hits[0].Id)
}

func TestFakeBackendScrollLifecycle(t *testing.T) {
	ctx := context.Background()
	be := NewFakeBackend()
	require.NoError(t, be.Seed("orders",
		SeedDoc{Id: "a", Source: map[string]string{}},
		SeedDoc{Id: "b", Source: map[string]string{}},
		SeedDoc{Id: "c", Source: map[string]string{}},
	))

	resp, err := be.OpenScroll(ctx, &backend.Request{Indices: []string{"orders"}, Size: 2, ScrollLifetime: time.Minute})
	require.NoError(t, err)
	require.Len(t, resp.Hits, 2)
	require.NotEmpty(t, resp.ScrollId)

	resp, err = be.ContinueScroll(ctx, resp.ScrollId, time.Minute)
	require.NoError(t, err)
	require.Len(t, resp.Hits, 1)

	be.ExpireScrolls()
	resp, err = be.ContinueScroll(ctx, resp.ScrollId, time.Minute)
	require.NoError(t, err)
	assert.True(t, resp.IsNotFound())

	resp, err = be.ContinueScroll(ctx, "unknown-token", time.Minute)
	require.NoError(t, err)
	assert.True(t, resp.IsNotFound())
}

func TestFakeBackendFailureInjectionIsOneShot(t *testing.T) {
	ctx := context.Background()
	be := NewFakeBackend()
	require.NoError(t, be.Seed("orders", SeedDoc{Id: "a", Source: map[string]string{}}))

	be.FailNextWith(500, "boom")
	resp, err := be.Search(ctx, &backend.Request{Indices: []string{"orders"}, Size: 10})
	require.NoError(t, err)
	assert.False(t, resp.IsValid())

	resp, err = be.Search(ctx, &backend.Request{Indices: []string{"orders"}, Size: 10})
	require.NoError(t, err)
	assert.True(t, resp.IsValid())
	assert.Equal(t, 2, be.Calls("Search"))
}

func TestFakeBackendMultiGetReportsFoundFlags(t *testing.T) {
	ctx := context.Background()
	be := NewFakeBackend()
	require.NoError(t, be.Seed("orders", SeedDoc{Id: "a", Source: map[string]string{"v": "1"}}))

	resp, err := be.MultiGet(ctx, []backend.DocRef{
		{Index: "orders", Id: "a"},
		{Index: "orders", Id: "missing"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Docs, 2)
	assert.True(t, resp.Docs[0].Found)
	assert.False(t, resp.Docs[1].Found)
}
