package redis_test

import (
	"context"
	"os"
	"testing"

	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/repository/kvtest"
	"github.com/Rrens/chatrooms/internal/repository/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("Requires Redis - set TEST_REDIS_HOST to run as integration test")
	}
	client, err := redis.NewClient(context.Background(), config.RedisConfig{Host: host, Port: 6379, DB: 15})
	require.NoError(t, err)
	return client
}

func TestStore_Contract(t *testing.T) {
	client := newTestClient(t)
	store := redis.NewStore(client)
	defer store.Close()

	kvtest.Run(t, store)
}

func TestRateLimiter_Allow(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	ctx := context.Background()
	limiter := redis.NewRateLimiter(client, 2, 1)
	require.NoError(t, limiter.Reset(ctx, "user-1"))

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should pass", i)
	}

	d, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 3, d.Limit)
}
