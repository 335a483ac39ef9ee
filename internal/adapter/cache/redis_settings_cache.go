package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aquavi/delivery-api/internal/usecase"
)

const receiveOrdersKey = "settings:receive_orders"

// SettingsCache is a read-through cache over the settings store. The
// receive_orders flag is consulted on every submission, so a short TTL keeps
// the hot path off MySQL while the kill switch still takes effect quickly.
type SettingsCache struct {
	rdb   *redis.Client
	inner usecase.SettingsStore
	ttl   time.Duration
}

func NewSettingsCache(rdb *redis.Client, inner usecase.SettingsStore, ttl time.Duration) *SettingsCache {
	return &SettingsCache{rdb: rdb, inner: inner, ttl: ttl}
}

func (c *SettingsCache) ReceiveOrders(ctx context.Context) (bool, error) {
	val, err := c.rdb.Get(ctx, receiveOrdersKey).Result()
	if err == nil {
		return val == "1", nil
	}
	if err != redis.Nil {
		// Cache unreachable: fall through to the store rather than refuse.
		return c.inner.ReceiveOrders(ctx)
	}

	open, err := c.inner.ReceiveOrders(ctx)
	if err != nil {
		return false, err
	}
	cached := "0"
	if open {
		cached = "1"
	}
	_ = c.rdb.Set(ctx, receiveOrdersKey, cached, c.ttl).Err()
	return open, nil
}

// SetReceiveOrders writes through and drops the cached value so the change
// is visible immediately, not after the TTL.
func (c *SettingsCache) SetReceiveOrders(ctx context.Context, open bool) error {
	if err := c.inner.SetReceiveOrders(ctx, open); err != nil {
		return err
	}
	_ = c.rdb.Del(ctx, receiveOrdersKey).Err()
	return nil
}

var _ usecase.SettingsStore = (*SettingsCache)(nil)
