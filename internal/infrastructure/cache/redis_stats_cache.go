package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dispensa/backend/internal/domain/catalog"
	"github.com/dispensa/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "catalog:stats:"

// RedisStatsCache implements StatsCache on Redis so catalog statistics
// survive process restarts and are shared across instances.
type RedisStatsCache struct {
	client *redis.Client
}

// NewRedisStatsCache connects to Redis and verifies the connection.
func NewRedisStatsCache(cfg config.RedisConfig) (*RedisStatsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStatsCache{client: client}, nil
}

// NewRedisStatsCacheWithClient wraps an existing client, mainly for tests.
func NewRedisStatsCacheWithClient(client *redis.Client) *RedisStatsCache {
	return &RedisStatsCache{client: client}
}

func statsKey(province string) string {
	return statsKeyPrefix + strings.ToUpper(province)
}

// Get returns the cached stats for a province, or (nil, nil) on a miss.
func (c *RedisStatsCache) Get(ctx context.Context, province string) (*catalog.Stats, error) {
	payload, err := c.client.Get(ctx, statsKey(province)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read stats cache: %w", err)
	}

	var stats catalog.Stats
	if err := json.Unmarshal(payload, &stats); err != nil {
		// A corrupt entry is treated as a miss.
		return nil, nil
	}
	return &stats, nil
}

// Set stores the stats for a province with the given TTL.
func (c *RedisStatsCache) Set(ctx context.Context, province string, stats *catalog.Stats, ttl time.Duration) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKey(province), payload, ttl).Err(); err != nil {
		return fmt.Errorf("write stats cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached stats for a province.
func (c *RedisStatsCache) Invalidate(ctx context.Context, province string) error {
	if err := c.client.Del(ctx, statsKey(province)).Err(); err != nil {
		return fmt.Errorf("invalidate stats cache: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}
