package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mocktest-engine/internal/config"

	"github.com/redis/go-redis/v9"
)

var ErrNoRedisAddress = errors.New("redis address is empty")

const connectTimeout = 3 * time.Second

// NewRedisClient dials the configured server and verifies it answers PING.
// Callers treat ErrNoRedisAddress as "run without a cache".
func NewRedisClient(redisCfg config.RedisConfig) (*redis.Client, error) {
	if redisCfg.Address == "" {
		return nil, ErrNoRedisAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:         redisCfg.Address,
		Password:     redisCfg.Password,
		DB:           redisCfg.DB,
		DialTimeout:  connectTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", redisCfg.Address, err)
	}
	return client, nil
}
