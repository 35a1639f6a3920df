package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dispensa/backend/internal/domain/catalog"
)

type statsEntry struct {
	stats     *catalog.Stats
	expiresAt time.Time
}

// InMemoryStatsCache implements StatsCache with a process-local map.
// Used in development and as a fallback when Redis is unavailable.
type InMemoryStatsCache struct {
	mu      sync.RWMutex
	entries map[string]statsEntry
}

// NewInMemoryStatsCache creates an empty in-memory cache.
func NewInMemoryStatsCache() *InMemoryStatsCache {
	return &InMemoryStatsCache{entries: make(map[string]statsEntry)}
}

// Get returns the cached stats for a province, or (nil, nil) on a miss.
func (c *InMemoryStatsCache) Get(_ context.Context, province string) (*catalog.Stats, error) {
	c.mu.RLock()
	entry, ok := c.entries[strings.ToUpper(province)]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.stats, nil
}

// Set stores the stats for a province with the given TTL.
func (c *InMemoryStatsCache) Set(_ context.Context, province string, stats *catalog.Stats, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[strings.ToUpper(province)] = statsEntry{
		stats:     stats,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Invalidate drops the cached stats for a province.
func (c *InMemoryStatsCache) Invalidate(_ context.Context, province string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, strings.ToUpper(province))
	return nil
}
