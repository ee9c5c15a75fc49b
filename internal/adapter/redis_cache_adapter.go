package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mocktest-engine/internal/domain"

	"github.com/redis/go-redis/v9"
)

// DefaultOpTimeout bounds a single cache call. Callers fall back to the store on error,
// so a slow cache must not hold up a prediction or a leaderboard read.
const DefaultOpTimeout = 250 * time.Millisecond

// RedisCacheAdapter implements domain.Cache on a Redis client or cluster.
type RedisCacheAdapter struct {
	client    redis.UniversalClient
	opTimeout time.Duration
}

// Option configures a RedisCacheAdapter.
type Option func(*RedisCacheAdapter)

// WithOpTimeout overrides DefaultOpTimeout. Zero disables the per-call deadline.
func WithOpTimeout(d time.Duration) Option {
	return func(r *RedisCacheAdapter) { r.opTimeout = d }
}

// NewRedisCacheAdapter wraps a connected client.
func NewRedisCacheAdapter(client redis.UniversalClient, opts ...Option) domain.Cache {
	r := &RedisCacheAdapter{client: client, opTimeout: DefaultOpTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisCacheAdapter) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opTimeout)
}

// Get translates redis.Nil to domain.ErrCacheMiss.
func (r *RedisCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis GET %s: %w", key, err)
	}
	return val, nil
}

// Set writes the value with a single SET, so readers see either the old or the new value.
func (r *RedisCacheAdapter) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

// SetIfAbsent writes with SET NX.
func (r *RedisCacheAdapter) SetIfAbsent(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	ok, err := r.client.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX %s: %w", key, err)
	}
	return ok, nil
}

func (r *RedisCacheAdapter) Incr(ctx context.Context, key string) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis INCR %s: %w", key, err)
	}
	return n, nil
}

// Delete removes the keys in one DEL.
func (r *RedisCacheAdapter) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis DEL %d keys: %w", len(keys), err)
	}
	return nil
}

func (r *RedisCacheAdapter) Ping(ctx context.Context) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return r.client.Ping(ctx).Err()
}
