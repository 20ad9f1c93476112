package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcache "innkeep/internal/app/cache"
	"innkeep/internal/infra/cache"
)

func TestMemoryGetSetRoundTrip(t *testing.T) {
	c := cache.NewMemory()
	ctx := context.Background()

	_, hit, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "search:abc", []byte(`{"offers":[]}`), time.Minute))

	value, hit, err := c.Get(ctx, "search:abc")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte(`{"offers":[]}`), value)
}

func TestMemoryEntriesExpire(t *testing.T) {
	c := cache.NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short-lived", []byte("x"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, hit, err := c.Get(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryInvalidateTags(t *testing.T) {
	c := cache.NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "search:queen", []byte("a"), time.Minute, appcache.RoomTypeTag("std-queen")))
	require.NoError(t, c.Set(ctx, "search:king", []byte("b"), time.Minute, appcache.RoomTypeTag("dlx-king")))
	require.NoError(t, c.Set(ctx, "search:both", []byte("c"), time.Minute, appcache.RoomTypeTag("std-queen"), appcache.RoomTypeTag("dlx-king")))

	require.NoError(t, c.InvalidateTags(ctx, appcache.RoomTypeTag("std-queen")))

	_, hit, err := c.Get(ctx, "search:queen")
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = c.Get(ctx, "search:both")
	require.NoError(t, err)
	assert.False(t, hit, "an entry under any invalidated tag drops")

	_, hit, err = c.Get(ctx, "search:king")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestMemorySetReplacesTags(t *testing.T) {
	c := cache.NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v1"), time.Minute, "old-tag"))
	require.NoError(t, c.Set(ctx, "k", []byte("v2"), time.Minute, "new-tag"))

	require.NoError(t, c.InvalidateTags(ctx, "old-tag"))
	value, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit, "stale tag no longer covers the rewritten key")
	assert.Equal(t, []byte("v2"), value)

	require.NoError(t, c.InvalidateTags(ctx, "new-tag"))
	_, hit, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}
