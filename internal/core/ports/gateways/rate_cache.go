package gateways

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateSnapshotCache stores display-only rate snapshots keyed by pair ("USD_TO_NGN").
// A miss returns ok=false with a nil error.
type RateSnapshotCache interface {
	GetRate(ctx context.Context, pairKey string) (rate decimal.Decimal, ok bool, err error)
	SetRate(ctx context.Context, pairKey string, rate decimal.Decimal, ttl time.Duration) error
	Invalidate(ctx context.Context, pairKey string) error
}
