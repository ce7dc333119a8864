package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ultraselfai/primebet-sub001/metrics"
)

// Redis backs the balance cache with a shared store so every instance sees
// an invalidation immediately. TTL is enforced server-side via EX.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(addr string, ttlSeconds int) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Redis{rdb: rdb, ttl: time.Duration(ttlSeconds) * time.Second}, nil
}

func key(userID uint) string {
	return fmt.Sprintf("wallet:game:balance:%d", userID)
}

func (c *Redis) Get(userID uint) (decimal.Decimal, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	val, err := c.rdb.Get(ctx, key(userID)).Result()
	if err != nil {
		metrics.CacheEvents.WithLabelValues("miss").Inc()
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		metrics.CacheEvents.WithLabelValues("miss").Inc()
		return decimal.Zero, false
	}
	metrics.CacheEvents.WithLabelValues("hit").Inc()
	return d, true
}

func (c *Redis) Set(userID uint, balance decimal.Decimal) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_ = c.rdb.Set(ctx, key(userID), balance.String(), c.ttl).Err()
}

func (c *Redis) Invalidate(userID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_ = c.rdb.Del(ctx, key(userID)).Err()
	metrics.CacheEvents.WithLabelValues("invalidate").Inc()
}
