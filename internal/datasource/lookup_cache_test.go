package datasource

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryLookupCache tests get/set on the in-process cache
func TestMemoryLookupCache(t *testing.T) {
	c := NewMemoryLookupCache(time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	b, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(b))

	require.NoError(t, c.Close())
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

// TestRedisLookupCache tests the Redis cache against a live server when REDIS_URL is set
func TestRedisLookupCache(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	c, err := NewRedisLookupCache(redisURL)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.HealthCheck(ctx))

	key := "test:" + time.Now().Format(time.RFC3339Nano)
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []byte(`{"id":1}`), time.Minute))
	b, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":1}`, string(b))
}

// TestNewRedisLookupCacheBadURL tests URL parsing failures
func TestNewRedisLookupCacheBadURL(t *testing.T) {
	_, err := NewRedisLookupCache("not-a-redis-url")
	assert.Error(t, err)
}
