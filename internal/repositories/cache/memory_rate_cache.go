package cache

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

type memoryEntry struct {
	rate      decimal.Decimal
	expiresAt time.Time
}

// MemoryRateCache is the single-instance fallback used when REDIS_URL is not set.
type MemoryRateCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ gateways.RateSnapshotCache = (*MemoryRateCache)(nil)

func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryRateCache) GetRate(_ context.Context, pairKey string) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[pairKey]
	c.mu.RUnlock()
	if !ok || !c.now().Before(entry.expiresAt) {
		return decimal.Zero, false, nil
	}
	return entry.rate, true, nil
}

func (c *MemoryRateCache) SetRate(_ context.Context, pairKey string, rate decimal.Decimal, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[pairKey] = memoryEntry{rate: rate, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryRateCache) Invalidate(_ context.Context, pairKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, pairKey)
	return nil
}
