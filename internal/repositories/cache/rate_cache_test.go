package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 15, 10, 0, 0, 0, time.UTC)
	c := NewMemoryRateCache()
	c.now = func() time.Time { return now }

	_, ok, err := c.GetRate(ctx, "USD_TO_NGN")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetRate(ctx, "USD_TO_NGN", decimal.RequireFromString("1500.5"), 5*time.Minute))
	rate, ok, err := c.GetRate(ctx, "USD_TO_NGN")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1500.5", rate.String())

	now = now.Add(5 * time.Minute)
	_, ok, _ = c.GetRate(ctx, "USD_TO_NGN")
	assert.False(t, ok, "entry must expire after its ttl")

	require.NoError(t, c.SetRate(ctx, "EUR_TO_NGN", decimal.NewFromInt(1600), time.Minute))
	require.NoError(t, c.Invalidate(ctx, "EUR_TO_NGN"))
	_, ok, _ = c.GetRate(ctx, "EUR_TO_NGN")
	assert.False(t, ok)
}

func TestRateKey(t *testing.T) {
	assert.Equal(t, "kudi_commerce:rate:USD_TO_NGN", rateKey("USD_TO_NGN"))
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)
	_ = client.Close()

	_, err = NewRedisClient("://not-a-url")
	assert.Error(t, err)
}

func TestRedisRateCacheSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewRedisRateCache(client)
	ctx := context.Background()

	_, ok, err := c.GetRate(ctx, "USD_TO_NGN")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.SetRate(ctx, "USD_TO_NGN", decimal.NewFromInt(1), time.Minute))
	assert.Error(t, c.Invalidate(ctx, "USD_TO_NGN"))
}
