package cache

import (
	"testing"

	"mocktest-engine/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()
	assert.NotNil(t, client)
}

func TestNewRedisClient_MissingAddress(t *testing.T) {
	_, err := NewRedisClient(config.RedisConfig{})
	assert.ErrorIs(t, err, ErrNoRedisAddress)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(config.RedisConfig{Address: addr})
	assert.ErrorContains(t, err, "redis ping")
}
