package predict

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/roster-wins/internal/metrics"
	"github.com/yourusername/roster-wins/internal/models"
)

// CacheKey identifies one roster under one model.
type CacheKey struct {
	ModelID    uuid.UUID
	RosterHash string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s", k.ModelID, k.RosterHash)
}

// NewCacheKey hashes the roster's stat lines. Rosters with identical stats in
// identical slots share a key.
func NewCacheKey(modelID uuid.UUID, roster models.RosterRecord) (CacheKey, error) {
	data, err := json.Marshal(roster)
	if err != nil {
		return CacheKey{}, fmt.Errorf("failed to hash roster: %w", err)
	}
	sum := sha256.Sum256(data)
	return CacheKey{ModelID: modelID, RosterHash: hex.EncodeToString(sum[:])}, nil
}

// Cache holds recent predictions in memory.
type Cache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewCache creates a new prediction cache
func NewCache(ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction. Slices in the result are shared with the cache.
func (c *Cache) Get(key CacheKey) (*models.Prediction, bool) {
	if v, found := c.cache.Get(key.String()); found {
		if pred, ok := v.(models.Prediction); ok {
			c.hitCount.Add(1)
			metrics.RecordPredictionCache(true)
			return &pred, true
		}
	}
	c.missCount.Add(1)
	metrics.RecordPredictionCache(false)
	return nil, false
}

// Set stores a prediction. When full, expired entries are evicted first and
// the new entry is dropped if that frees nothing.
func (c *Cache) Set(key CacheKey, pred *models.Prediction) {
	if c.maxSize > 0 && c.cache.ItemCount() >= c.maxSize {
		c.cache.DeleteExpired()
		if c.cache.ItemCount() >= c.maxSize {
			return
		}
	}
	c.cache.Set(key.String(), *pred, c.ttl)
}

// InvalidateModel removes every entry computed by modelID.
func (c *Cache) InvalidateModel(modelID uuid.UUID) {
	prefix := modelID.String() + ":"
	for k := range c.cache.Items() {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			c.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache
func (c *Cache) Clear() {
	c.cache.Flush()
	c.hitCount.Store(0)
	c.missCount.Store(0)
}

// Stats returns cache statistics
func (c *Cache) Stats() (hits, misses uint64, ratio float64) {
	hits = c.hitCount.Load()
	misses = c.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (c *Cache) ItemCount() int {
	return c.cache.ItemCount()
}
