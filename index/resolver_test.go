package index

import (
	"testing"
	"time"

	"github.com/goliatone/go-repository-search/entity"
	"github.com/goliatone/go-repository-search/query"
	"github.com/stretchr/testify/assert"
)

func TestForQueryPlainEntity(t *testing.T) {
	d := entity.Descriptor{Name: "Order", Index: "orders"}
	target := ForQuery(d, query.New())

	assert.Equal(t, []string{"orders"}, target.Indices)
	assert.Empty(t, target.Routing)
	assert.False(t, target.IsScatter())
}

func TestForQueryPartitionedWithRange(t *testing.T) {
	d := entity.Descriptor{
		Name:               "LogEntry",
		Index:              "logs",
		HasMultipleIndexes: true,
		Partitions:         entity.MonthlyPartitioner{Stem: "logs"},
	}

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	q := query.New().WithRange(from, from.AddDate(0, 1, 10))

	target := ForQuery(d, q)
	assert.Equal(t, []string{"logs-2026.06", "logs-2026.07"}, target.Indices)
	assert.True(t, target.IsScatter())
}

func TestForQueryPartitionedWithoutRangeFallsBackToWildcard(t *testing.T) {
	d := entity.Descriptor{
		Name:               "LogEntry",
		Index:              "logs",
		HasMultipleIndexes: true,
		Partitions:         entity.MonthlyPartitioner{Stem: "logs"},
	}

	target := ForQuery(d, query.New())
	assert.Equal(t, []string{"logs-*"}, target.Indices)
	assert.True(t, target.IsScatter())

	target = ForQuery(d, nil)
	assert.Equal(t, []string{"logs-*"}, target.Indices)
}

func TestForIdPlainEntityIsDirect(t *testing.T) {
	d := entity.Descriptor{Name: "Order", Index: "orders"}

	target, direct := ForId(d, query.NewId("o-1"))
	assert.True(t, direct)
	assert.Equal(t, []string{"orders"}, target.Indices)
	assert.Empty(t, target.Routing)
}

func TestForIdParentChild(t *testing.T) {
	d := entity.Descriptor{Name: "OrderLine", Index: "orders", HasParent: true}

	target, direct := ForId(d, query.NewRoutedId("l-1", "o-9"))
	assert.True(t, direct)
	assert.Equal(t, "o-9", target.Routing)

	_, direct = ForId(d, query.NewId("l-1"))
	assert.False(t, direct)
}

func TestForIdPartitionedIsNeverDirect(t *testing.T) {
	d := entity.Descriptor{
		Name:               "LogEntry",
		Index:              "logs",
		HasMultipleIndexes: true,
		Partitions:         entity.DailyPartitioner{Stem: "logs"},
	}

	target, direct := ForId(d, query.NewId("e-1"))
	assert.False(t, direct)
	assert.Equal(t, []string{"logs-*"}, target.Indices)
	assert.True(t, target.IsScatter())
}

func TestTargetIsScatter(t *testing.T) {
	assert.False(t, Target{Indices: []string{"orders"}}.IsScatter())
	assert.True(t, Target{Indices: []string{"logs-*"}}.IsScatter())
	assert.True(t, Target{Indices: []string{"a", "b"}}.IsScatter())
	assert.True(t, Target{}.IsScatter())
}
