package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsDefaults(t *testing.T) {
	o := NewOptions()

	assert.Equal(t, DefaultLimit, o.GetLimit())
	assert.Equal(t, 1, o.GetPage())
	assert.False(t, o.HasPageLimit())
	assert.False(t, o.UsesSnapshotPaging())
	assert.False(t, o.ShouldReadCache())
	assert.False(t, o.ShouldWriteCache())
}

func TestOptionsLimitCapping(t *testing.T) {
	assert.Equal(t, 25, NewOptions().WithLimit(25).GetLimit())
	assert.Equal(t, MaxLimit, NewOptions().WithLimit(MaxLimit+500).GetLimit())
	assert.Equal(t, DefaultLimit, NewOptions().WithLimit(0).GetLimit())
	assert.Equal(t, DefaultLimit, NewOptions().WithLimit(-3).GetLimit())
}

func TestOptionsPageFloor(t *testing.T) {
	assert.Equal(t, 1, NewOptions().WithPage(0).GetPage())
	assert.Equal(t, 1, NewOptions().WithPage(-1).GetPage())
	assert.Equal(t, 7, NewOptions().WithPage(7).GetPage())
}

func TestOptionsCacheKeyEnablesBothDirections(t *testing.T) {
	o := NewOptions().WithCacheKey("recent-orders", time.Minute)

	assert.True(t, o.HasCacheKey())
	assert.True(t, o.ReadCache)
	assert.True(t, o.WriteCache)
	assert.True(t, o.ShouldReadCache())
	assert.True(t, o.ShouldWriteCache())
	assert.Equal(t, time.Minute, o.GetExpiration(time.Hour))
}

func TestOptionsExpirationFallback(t *testing.T) {
	o := NewOptions().WithCacheKey("k", 0)
	assert.Equal(t, time.Hour, o.GetExpiration(time.Hour))
}

func TestOptionsSnapshotModeDisablesCaching(t *testing.T) {
	o := NewOptions().WithCacheKey("k", time.Minute).WithSnapshotPaging(30 * time.Second)

	assert.True(t, o.UsesSnapshotPaging())
	assert.False(t, o.ShouldReadCache())
	assert.False(t, o.ShouldWriteCache())
	// ShouldUseCache only checks directions and key, not mode.
	assert.True(t, o.ShouldUseCache())
}

func TestOptionsSnapshotToken(t *testing.T) {
	o := NewOptions().WithSnapshotToken("tok")

	assert.True(t, o.HasSnapshotToken())
	assert.True(t, o.UsesSnapshotPaging())
	assert.Equal(t, DefaultSnapshotLifetime, o.GetSnapshotLifetime())

	o = NewOptions().WithSnapshotPaging(5 * time.Second).WithSnapshotToken("tok")
	assert.Equal(t, 5*time.Second, o.GetSnapshotLifetime())
}

func TestOptionsCloneIsIndependent(t *testing.T) {
	o := NewOptions().WithPage(2).WithLimit(20).WithCacheKey("k", time.Minute)
	c := o.Clone()
	c.Page = 9
	c.CacheKey = "other"

	assert.Equal(t, 2, o.Page)
	assert.Equal(t, "k", o.CacheKey)
}

func TestOptionsCloneNil(t *testing.T) {
	var o *Options
	c := o.Clone()
	require.NotNil(t, c)
	assert.Equal(t, DefaultLimit, c.GetLimit())
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, NewOptions().Validate())
	assert.NoError(t, NewOptions().WithPage(3).WithLimit(50).Validate())
	assert.Error(t, NewOptions().WithLimit(MaxLimit+1).Validate())

	o := NewOptions()
	o.Page = -1
	assert.Error(t, o.Validate())

	o = NewOptions()
	o.SnapshotLifetime = -time.Second
	assert.Error(t, o.Validate())
}
