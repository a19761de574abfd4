package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdIdentityIgnoresRouting(t *testing.T) {
	a := NewId("doc-1")
	b := NewRoutedId("doc-1", "parent-9")

	assert.True(t, a.Equal(b))
	assert.False(t, a.HasRouting())
	assert.True(t, b.HasRouting())
	assert.True(t, Id{}.IsEmpty())
	assert.False(t, a.IsEmpty())
}

func TestQueryBuilderChaining(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	q := New().
		WithFilter(`status = "open"`).
		WithSearch("anvil").
		WithSort("created_at desc").
		WithIds(NewId("a"), NewId("b")).
		WithExcludedIds(NewId("c")).
		WithFields("id", "name").
		WithRange(from, to)

	assert.Equal(t, `status = "open"`, q.Filter)
	assert.Len(t, q.Ids, 2)
	assert.Len(t, q.ExcludedIds, 1)
	require.NotNil(t, q.Range)
	assert.Equal(t, from, q.Range.From)
}

func TestQueryCloneIsDeep(t *testing.T) {
	q := New().
		WithIds(NewId("a")).
		WithFields("id").
		WithRange(time.Now(), time.Now().Add(time.Hour))

	c := q.Clone()
	c.Ids[0] = NewId("mutated")
	c.Fields[0] = "mutated"
	c.Range.From = time.Time{}
	c.WithExcludedIds(NewId("x"))

	assert.Equal(t, "a", q.Ids[0].Value)
	assert.Equal(t, "id", q.Fields[0])
	assert.False(t, q.Range.From.IsZero())
	assert.Empty(t, q.ExcludedIds)
}

func TestQueryCloneNil(t *testing.T) {
	var q *Query
	c := q.Clone()
	require.NotNil(t, c)
	assert.Empty(t, c.Filter)
}

func TestMergeCombinesFilters(t *testing.T) {
	system := New().WithFilter("tenant = 7").WithExcludedIds(NewId("gone"))
	user := New().WithFilter(`status = "open"`).WithIds(NewId("a"))

	merged := Merge(system, user)

	assert.Equal(t, `(tenant = 7) AND (status = "open")`, merged.Filter)
	assert.Len(t, merged.Ids, 1)
	assert.Len(t, merged.ExcludedIds, 1)

	// Neither input was touched.
	assert.Equal(t, "tenant = 7", system.Filter)
	assert.Equal(t, `status = "open"`, user.Filter)
}

func TestMergeEmptySides(t *testing.T) {
	user := New().WithFilter("x = 1")
	assert.Equal(t, "x = 1", Merge(nil, user).Filter)
	assert.Equal(t, "x = 1", Merge(New(), user).Filter)
	assert.Equal(t, "sys = 1", Merge(New().WithFilter("sys = 1"), New()).Filter)
}

func TestMergeSystemRangeAppliesWhenUserHasNone(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	system := New().WithRange(from, from.AddDate(0, 1, 0))

	merged := Merge(system, New())
	require.NotNil(t, merged.Range)
	assert.Equal(t, from, merged.Range.From)

	userFrom := from.AddDate(0, 2, 0)
	merged = Merge(system, New().WithRange(userFrom, userFrom.AddDate(0, 1, 0)))
	assert.Equal(t, userFrom, merged.Range.From)
}
