package predict

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/roster-wins/internal/models"
)

func TestCacheKeyDependsOnStats(t *testing.T) {
	id := uuid.New()
	a, err := NewCacheKey(id, uniformRoster())
	require.NoError(t, err)
	b, err := NewCacheKey(id, uniformRoster())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	r := uniformRoster()
	r.Slots[0].Points = 16
	c, err := NewCacheKey(id, r)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	assert.Contains(t, a.String(), id.String())
}

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Hour, 10)
	defer c.Clear()

	key := CacheKey{ModelID: uuid.New(), RosterHash: "abc"}
	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, &models.Prediction{Wins: 44})
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 44.0, got.Wins)

	_, _, ratio := c.Stats()
	assert.Equal(t, 0.5, ratio)
}

func TestCacheMaxSize(t *testing.T) {
	c := NewCache(time.Hour, 1)
	c.Set(CacheKey{ModelID: uuid.New(), RosterHash: "a"}, &models.Prediction{})
	c.Set(CacheKey{ModelID: uuid.New(), RosterHash: "b"}, &models.Prediction{})
	assert.Equal(t, 1, c.ItemCount())
}

func TestCacheInvalidateModel(t *testing.T) {
	c := NewCache(time.Hour, 10)
	keep := uuid.New()
	drop := uuid.New()
	c.Set(CacheKey{ModelID: keep, RosterHash: "a"}, &models.Prediction{})
	c.Set(CacheKey{ModelID: drop, RosterHash: "a"}, &models.Prediction{})
	c.Set(CacheKey{ModelID: drop, RosterHash: "b"}, &models.Prediction{})

	c.InvalidateModel(drop)

	assert.Equal(t, 1, c.ItemCount())
	_, ok := c.Get(CacheKey{ModelID: keep, RosterHash: "a"})
	assert.True(t, ok)
}
