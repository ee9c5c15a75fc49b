package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"mocktest-engine/internal/cache"
	"mocktest-engine/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapter_RankTableKey(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheAdapter(client, WithOpTimeout(0))
	ctx := context.Background()

	key := cache.RankTableKey("01HXEXAM")
	payload := `{"exam_id":"01HXEXAM","version":2,"points":[{"marks":40,"rank":5000}]}`

	mock.ExpectSet(key, payload, time.Hour).SetVal("OK")
	require.NoError(t, c.Set(ctx, key, payload, time.Hour))

	mock.ExpectGet(key).SetVal(payload)
	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	mock.ExpectGet(key).RedisNil()
	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_ErrorsKeepCause(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheAdapter(client, WithOpTimeout(0))
	ctx := context.Background()
	down := errors.New("READONLY You can't write against a read only replica")

	mock.ExpectGet("k").SetErr(down)
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)

	mock.ExpectSet("k", "v", time.Minute).SetErr(down)
	err = c.Set(ctx, "k", "v", time.Minute)
	assert.ErrorIs(t, err, down)
	assert.Contains(t, err.Error(), "SET k")

	mock.ExpectDel("a", "b").SetErr(down)
	assert.ErrorIs(t, c.Delete(ctx, "a", "b"), down)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_LeaderboardInvalidation(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheAdapter(client, WithOpTimeout(0))
	ctx := context.Background()

	keys := cache.LeaderboardKeysFor("neet-2026", "physics", "school-7")
	mock.ExpectDel(keys...).SetVal(int64(len(keys)))
	require.NoError(t, c.Delete(ctx, keys...))

	// nothing to delete is not a round trip
	require.NoError(t, c.Delete(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheAdapter(client)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, c.Ping(context.Background()))

	mock.ExpectPing().SetErr(redis.ErrClosed)
	assert.ErrorIs(t, c.Ping(context.Background()), redis.ErrClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_SetIfAbsentAndIncr(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheAdapter(client, WithOpTimeout(0))
	ctx := context.Background()
	key := cache.RankTableKey("01HXEXAM")

	mock.ExpectSetNX(key, "v1", time.Hour).SetVal(true)
	wrote, err := c.SetIfAbsent(ctx, key, "v1", time.Hour)
	require.NoError(t, err)
	assert.True(t, wrote)

	mock.ExpectSetNX(key, "v1", time.Hour).SetVal(false)
	wrote, err = c.SetIfAbsent(ctx, key, "v1", time.Hour)
	require.NoError(t, err)
	assert.False(t, wrote)

	gen := cache.LeaderboardGenerationKey(cache.LeaderboardKey("c1", "", ""))
	mock.ExpectIncr(gen).SetVal(4)
	n, err := c.Incr(ctx, gen)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	mock.ExpectIncr(gen).SetErr(errors.New("OOM"))
	_, err = c.Incr(ctx, gen)
	assert.ErrorContains(t, err, "INCR")

	assert.NoError(t, mock.ExpectationsWereMet())
}
