package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a time-bounded conversion rate from one currency to another.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	FromCurrency   CurrencyCode    `json:"fromCurrency"`
	ToCurrency     CurrencyCode    `json:"toCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	EffectiveDate  time.Time       `json:"effectiveDate"`
	ExpiryDate     *time.Time      `json:"expiryDate,omitempty"`
	IsActive       bool            `json:"isActive"`
	Source         string          `json:"source"`
	Provider       string          `json:"provider"`
	AuditFields
}

// IsEffectiveAt reports whether the rate may be used at instant t.
func (r ExchangeRate) IsEffectiveAt(t time.Time) bool {
	if !r.IsActive || r.EffectiveDate.After(t) {
		return false
	}
	return r.ExpiryDate == nil || !r.ExpiryDate.Before(t)
}

// LatestEffective picks the effective rate with the most recent effective date at t.
// Ties keep the first candidate seen.
func LatestEffective(rates []ExchangeRate, t time.Time) (*ExchangeRate, bool) {
	var latest *ExchangeRate
	for i := range rates {
		r := rates[i]
		if !r.IsEffectiveAt(t) {
			continue
		}
		if latest == nil || r.EffectiveDate.After(latest.EffectiveDate) {
			latest = &r
		}
	}
	return latest, latest != nil
}
