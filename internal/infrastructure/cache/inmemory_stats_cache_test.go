package cache

import (
	"context"
	"testing"
	"time"

	"github.com/dispensa/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStatsCache_SetAndGet(t *testing.T) {
	c := NewInMemoryStatsCache()
	ctx := context.Background()

	stats := &catalog.Stats{
		Province:      "ON",
		TotalProducts: 1200,
		Categories:    map[string]int64{"Flower": 480, "Pre-Rolls": 320},
	}
	require.NoError(t, c.Set(ctx, "on", stats, time.Minute))

	got, err := c.Get(ctx, "ON")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1200), got.TotalProducts)
	assert.Equal(t, int64(480), got.Categories["Flower"])
}

func TestInMemoryStatsCache_MissReturnsNil(t *testing.T) {
	c := NewInMemoryStatsCache()

	got, err := c.Get(context.Background(), "BC")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryStatsCache_Expiry(t *testing.T) {
	c := NewInMemoryStatsCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "AB", &catalog.Stats{Province: "AB"}, -time.Second))

	got, err := c.Get(ctx, "AB")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryStatsCache_Invalidate(t *testing.T) {
	c := NewInMemoryStatsCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ON", &catalog.Stats{Province: "ON"}, time.Minute))
	require.NoError(t, c.Invalidate(ctx, "on"))

	got, err := c.Get(ctx, "ON")
	require.NoError(t, err)
	assert.Nil(t, got)
}
