package cache

import (
	"context"
	"time"

	"github.com/dispensa/backend/internal/domain/catalog"
)

// StatsCache caches per-province catalog statistics. A miss returns
// (nil, nil); errors are reserved for backend failures.
type StatsCache interface {
	Get(ctx context.Context, province string) (*catalog.Stats, error)
	Set(ctx context.Context, province string, stats *catalog.Stats, ttl time.Duration) error
	Invalidate(ctx context.Context, province string) error
}
