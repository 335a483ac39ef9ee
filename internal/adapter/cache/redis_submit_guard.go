package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aquavi/delivery-api/internal/usecase"
)

// RedisSubmitGuard deduplicates order submissions with a SetNX lock keyed by
// order number.
type RedisSubmitGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSubmitGuard(rdb *redis.Client, ttl time.Duration) *RedisSubmitGuard {
	return &RedisSubmitGuard{rdb: rdb, ttl: ttl}
}

func (g *RedisSubmitGuard) TryLock(ctx context.Context, key string) (bool, error) {
	return g.rdb.SetNX(ctx, "guard:"+key, "1", g.ttl).Result()
}

var _ usecase.SubmitGuard = (*RedisSubmitGuard)(nil)
