package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/core/ports/gateways"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const rateKeyPrefix = "kudi_commerce:rate"

// RedisRateCache keeps display rate snapshots in redis so every instance serves the same
// snapshot until it expires.
type RedisRateCache struct {
	client *redis.Client
}

var _ gateways.RateSnapshotCache = (*RedisRateCache)(nil)

// NewRedisClient parses a redis URL such as redis://localhost:6379/0.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func NewRedisRateCache(client *redis.Client) *RedisRateCache {
	return &RedisRateCache{client: client}
}

func rateKey(pairKey string) string {
	return fmt.Sprintf("%s:%s", rateKeyPrefix, pairKey)
}

func (c *RedisRateCache) GetRate(ctx context.Context, pairKey string) (decimal.Decimal, bool, error) {
	raw, err := c.client.Get(ctx, rateKey(pairKey)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("redis get %s: %w", pairKey, err)
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		// A corrupt entry is treated as a miss; the next SetRate overwrites it.
		return decimal.Zero, false, nil
	}
	return rate, true, nil
}

func (c *RedisRateCache) SetRate(ctx context.Context, pairKey string, rate decimal.Decimal, ttl time.Duration) error {
	if err := c.client.Set(ctx, rateKey(pairKey), rate.String(), ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", pairKey, err)
	}
	return nil
}

func (c *RedisRateCache) Invalidate(ctx context.Context, pairKey string) error {
	if err := c.client.Del(ctx, rateKey(pairKey)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", pairKey, err)
	}
	return nil
}
