package adapter

import (
	"context"
	"testing"
	"time"

	"mocktest-engine/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapter_MiniredisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	cache := NewRedisCacheAdapter(client)
	ctx := context.Background()

	require.NoError(t, cache.Ping(ctx))
	require.NoError(t, cache.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, cache.Set(ctx, "b", "2", 0))

	v, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	mr.FastForward(2 * time.Minute)
	_, err = cache.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, cache.Delete(ctx, "b", "missing"))
	_, err = cache.Get(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCacheAdapter_MiniredisSetIfAbsent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	cache := NewRedisCacheAdapter(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "table", "v2", time.Hour))
	wrote, err := cache.SetIfAbsent(ctx, "table", "v1", time.Hour)
	require.NoError(t, err)
	assert.False(t, wrote)
	v, err := cache.Get(ctx, "table")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	n, err := cache.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = cache.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
