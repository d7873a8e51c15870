package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a row of exchange_rates. Rate is NUMERIC(19,6).
type ExchangeRate struct {
	ExchangeRateID string          `db:"exchange_rate_id"`
	FromCurrency   string          `db:"from_currency"`
	ToCurrency     string          `db:"to_currency"`
	Rate           decimal.Decimal `db:"rate"`
	EffectiveDate  time.Time       `db:"effective_date"`
	ExpiryDate     *time.Time      `db:"expiry_date"` // Nullable
	IsActive       bool            `db:"is_active"`
	Source         string          `db:"source"`
	Provider       string          `db:"provider"`
	AuditFields
}
