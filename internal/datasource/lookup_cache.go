package datasource

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// LookupCache stores serialized player directory and stat-line lookups.
type LookupCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// RedisLookupCache shares lookups across processes through Redis
type RedisLookupCache struct {
	client *redis.Client
	prefix string
}

// NewRedisLookupCache connects to redisURL and verifies the connection
func NewRedisLookupCache(redisURL string) (*RedisLookupCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisLookupCacheFromClient(client), nil
}

// NewRedisLookupCacheFromClient wraps an existing client
func NewRedisLookupCacheFromClient(client *redis.Client) *RedisLookupCache {
	return &RedisLookupCache{client: client, prefix: "roster_wins:lookup:"}
}

// Get retrieves a value by key; a missing key is a miss, not an error
func (rc *RedisLookupCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := rc.client.Get(ctx, rc.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set stores a value with TTL
func (rc *RedisLookupCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return rc.client.Set(ctx, rc.prefix+key, value, ttl).Err()
}

// HealthCheck pings Redis to verify connection
func (rc *RedisLookupCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (rc *RedisLookupCache) Close() error {
	return rc.client.Close()
}

// MemoryLookupCache keeps lookups in process
type MemoryLookupCache struct {
	cache *gocache.Cache
}

// NewMemoryLookupCache creates an in-process cache with the given default TTL
func NewMemoryLookupCache(ttl time.Duration) *MemoryLookupCache {
	return &MemoryLookupCache{cache: gocache.New(ttl, 2*ttl)}
}

// Get retrieves a value by key
func (mc *MemoryLookupCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := mc.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

// Set stores a value with TTL
func (mc *MemoryLookupCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	mc.cache.Set(key, value, ttl)
	return nil
}

// Close flushes the cache
func (mc *MemoryLookupCache) Close() error {
	mc.cache.Flush()
	return nil
}
