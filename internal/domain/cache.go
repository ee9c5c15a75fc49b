package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss means the key is absent. Any other cache error is an outage
// and callers fall back to the store.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache stores whole serialized values. A value is written with one Set so
// readers never observe half of a rank table or leaderboard.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	// Set with a zero ttl keeps the value until it is deleted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// SetIfAbsent writes only when the key does not exist and reports whether it wrote.
	// Read-through loaders use it so they never overwrite a newer value.
	SetIfAbsent(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	// Incr atomically increments a counter, treating a missing key as 0.
	Incr(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
