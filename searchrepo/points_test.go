package searchrepo

import (
	"context"
	"testing"

	"github.com/goliatone/go-repository-search/entity"
	repoerrors "github.com/goliatone/go-repository-search/errors"
	"github.com/goliatone/go-repository-search/pkg/testsupport"
	"github.com/goliatone/go-repository-search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderLine struct {
	Id      string `json:"id"`
	OrderId string `json:"order_id"`
}

func lineDescriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:        "OrderLine",
		Index:       "orders",
		HasIdentity: true,
		HasParent:   true,
	}
}

func TestGetByIDDirect(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	seedOrders(t, be, 3)
	repo := newOrderRepo(t, be, nil)

	doc, err := repo.GetByID(ctx, query.NewId("o-2"), nil)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "o-2", doc.Id)
	assert.Equal(t, 1, be.Calls("Get"))
	assert.Zero(t, be.Calls("Search"))
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	seedOrders(t, be, 1)
	repo := newOrderRepo(t, be, nil)

	doc, err := repo.GetByID(ctx, query.NewId("missing"), nil)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestGetByIDEmptyIdFailsFast(t *testing.T) {
	be := testsupport.NewFakeBackend()
	repo := newOrderRepo(t, be, nil)

	_, err := repo.GetByID(context.Background(), query.Id{}, nil)
	assert.True(t, repoerrors.IsInvalidArgument(err))
	assert.Zero(t, be.Calls("Get"))
}

func TestGetByIDCaching(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	seedOrders(t, be, 1)
	repo := newOrderRepo(t, be, newMemoryCache(t))

	opts := query.NewOptions().WithReadCache(true).WithWriteCache(true)

	doc, err := repo.GetByID(ctx, query.NewId("o-1"), opts)
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.Equal(t, 1, be.Calls("Get"))

	doc, err = repo.GetByID(ctx, query.NewId("o-1"), opts)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 1, be.Calls("Get"))

	// Invalidation forces the next lookup back to the backend.
	require.NoError(t, repo.InvalidateCache(ctx, []query.Id{query.NewId("o-1")}))
	_, err = repo.GetByID(ctx, query.NewId("o-1"), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, be.Calls("Get"))
}

func TestGetByIDWithoutOptionsNeverCaches(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	seedOrders(t, be, 1)
	repo := newOrderRepo(t, be, newMemoryCache(t))

	_, err := repo.GetByID(ctx, query.NewId("o-1"), nil)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, query.NewId("o-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, be.Calls("Get"))
}

func TestGetByIDParentChildRouting(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	require.NoError(t, be.Seed("orders",
		testsupport.SeedDoc{Id: "l-1", Routing: "o-1", Source: orderLine{Id: "l-1", OrderId: "o-1"}},
	))
	repo, err := New[orderLine](Config{Backend: be, Descriptor: lineDescriptor()})
	require.NoError(t, err)

	// With routing the lookup is a direct get.
	doc, err := repo.GetByID(ctx, query.NewRoutedId("l-1", "o-1"), nil)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 1, be.Calls("Get"))
	assert.Zero(t, be.Calls("Search"))

	// Without routing it degrades to a scatter find-one.
	doc, err = repo.GetByID(ctx, query.NewId("l-1"), nil)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "o-1", doc.OrderId)
	assert.Equal(t, 1, be.Calls("Get"))
	assert.Equal(t, 1, be.Calls("Search"))
}

func TestGetByIDPartitionedFamilyScatters(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	require.NoError(t, be.Seed("logs-2026.07",
		testsupport.SeedDoc{Id: "e-1", Source: order{Id: "e-1"}},
	))
	repo, err := New[order](Config{
		Backend: be,
		Descriptor: entity.Descriptor{
			Name:               "LogEntry",
			Index:              "logs",
			HasIdentity:        true,
			HasMultipleIndexes: true,
			Partitions:         entity.MonthlyPartitioner{Stem: "logs"},
		},
	})
	require.NoError(t, err)

	doc, err := repo.GetByID(ctx, query.NewId("e-1"), nil)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Zero(t, be.Calls("Get"))
	assert.Equal(t, 1, be.Calls("Search"))
}

func TestGetByIdsDirectBatch(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	seedOrders(t, be, 3)
	repo := newOrderRepo(t, be, nil)

	// Duplicates and empty ids are dropped; missing ids are simply absent.
	docs, err := repo.GetByIds(ctx, []query.Id{
		query.NewId("o-1"),
		query.NewId("o-1"),
		{},
		query.NewId("o-3"),
		query.NewId("missing"),
	}, nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "o-1", docs[0].Id)
	assert.Equal(t, "o-3", docs[1].Id)
	assert.Equal(t, 1, be.Calls("MultiGet"))
	assert.Zero(t, be.Calls("Search"))
}

func TestGetByIdsEmptyInputSkipsNetwork(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	repo := newOrderRepo(t, be, nil)

	docs, err := repo.GetByIds(ctx, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)

	docs, err = repo.GetByIds(ctx, []query.Id{{}, {}}, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)

	assert.Zero(t, be.Calls("MultiGet"))
	assert.Zero(t, be.Calls("Search"))
}

func TestGetByIdsRequiresIdentity(t *testing.T) {
	be := testsupport.NewFakeBackend()
	repo, err := New[order](Config{
		Backend:    be,
		Descriptor: entity.Descriptor{Name: "Blob", Index: "blobs"},
	})
	require.NoError(t, err)

	_, err = repo.GetByIds(context.Background(), []query.Id{query.NewId("b-1")}, nil)
	assert.True(t, repoerrors.IsUnsupportedCapability(err))
}

func TestGetByIdsMixedRoutingSplitsTiers(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	require.NoError(t, be.Seed("orders",
		testsupport.SeedDoc{Id: "l-1", Routing: "o-1", Source: orderLine{Id: "l-1", OrderId: "o-1"}},
		testsupport.SeedDoc{Id: "l-2", Routing: "o-2", Source: orderLine{Id: "l-2", OrderId: "o-2"}},
	))
	repo, err := New[orderLine](Config{Backend: be, Descriptor: lineDescriptor()})
	require.NoError(t, err)

	docs, err := repo.GetByIds(ctx, []query.Id{
		query.NewRoutedId("l-1", "o-1"), // routed: direct multi-get
		query.NewId("l-2"),              // blind: id-filtered find fallback
	}, nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 1, be.Calls("MultiGet"))
	assert.GreaterOrEqual(t, be.Calls("Search"), 1)
}

func TestGetByIdsReadsCacheFirst(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	seedOrders(t, be, 2)
	repo := newOrderRepo(t, be, newMemoryCache(t))

	opts := query.NewOptions().WithReadCache(true).WithWriteCache(true)

	docs, err := repo.GetByIds(ctx, []query.Id{query.NewId("o-1"), query.NewId("o-2")}, opts)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, 1, be.Calls("MultiGet"))

	// Everything is cached now; the second batch needs no backend call.
	docs, err = repo.GetByIds(ctx, []query.Id{query.NewId("o-1"), query.NewId("o-2")}, opts)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 1, be.Calls("MultiGet"))
}

func TestExistsByID(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	seedOrders(t, be, 1)
	repo := newOrderRepo(t, be, nil)

	ok, err := repo.ExistsByID(ctx, query.NewId("o-1"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByID(ctx, query.NewId("missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.ExistsByID(ctx, query.Id{})
	assert.True(t, repoerrors.IsInvalidArgument(err))
}

func TestExistsByIDScatterForParentWithoutRouting(t *testing.T) {
	ctx := context.Background()
	be := testsupport.NewFakeBackend()
	require.NoError(t, be.Seed("orders",
		testsupport.SeedDoc{Id: "l-1", Routing: "o-1", Source: orderLine{Id: "l-1"}},
	))
	repo, err := New[orderLine](Config{Backend: be, Descriptor: lineDescriptor()})
	require.NoError(t, err)

	ok, err := repo.ExistsByID(ctx, query.NewId("l-1"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, be.Calls("Get"))
	assert.Equal(t, 1, be.Calls("Search"))
}
