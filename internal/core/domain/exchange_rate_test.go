package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestExchangeRate_IsEffectiveAt(t *testing.T) {
	at := day(2025, 2, 15)
	tests := []struct {
		name string
		rate domain.ExchangeRate
		want bool
	}{
		{"open ended", domain.ExchangeRate{IsActive: true, EffectiveDate: day(2025, 1, 1)}, true},
		{"starts exactly now", domain.ExchangeRate{IsActive: true, EffectiveDate: at}, true},
		{"expires exactly now", domain.ExchangeRate{IsActive: true, EffectiveDate: day(2025, 1, 1), ExpiryDate: timePtr(at)}, true},
		{"expired", domain.ExchangeRate{IsActive: true, EffectiveDate: day(2025, 1, 1), ExpiryDate: timePtr(day(2025, 2, 1))}, false},
		{"future", domain.ExchangeRate{IsActive: true, EffectiveDate: day(2025, 3, 1)}, false},
		{"inactive", domain.ExchangeRate{IsActive: false, EffectiveDate: day(2025, 1, 1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rate.IsEffectiveAt(at))
		})
	}
}

func TestLatestEffective_LaterWindowWins(t *testing.T) {
	rates := []domain.ExchangeRate{
		{ExchangeRateID: "jan", IsActive: true, Rate: decimal.NewFromInt(1400), EffectiveDate: day(2025, 1, 1), ExpiryDate: timePtr(day(2025, 3, 31))},
		{ExchangeRateID: "feb", IsActive: true, Rate: decimal.NewFromInt(1500), EffectiveDate: day(2025, 2, 1)},
		{ExchangeRateID: "mar", IsActive: true, Rate: decimal.NewFromInt(1600), EffectiveDate: day(2025, 3, 1)},
		{ExchangeRateID: "off", IsActive: false, Rate: decimal.NewFromInt(1700), EffectiveDate: day(2025, 2, 10)},
	}

	latest, ok := domain.LatestEffective(rates, day(2025, 2, 15))

	require.True(t, ok)
	assert.Equal(t, "feb", latest.ExchangeRateID)
	assert.Equal(t, "1500", latest.Rate.String())
}

func TestLatestEffective_NoneEffective(t *testing.T) {
	rates := []domain.ExchangeRate{
		{ExchangeRateID: "future", IsActive: true, EffectiveDate: day(2025, 3, 1)},
	}

	latest, ok := domain.LatestEffective(rates, day(2025, 2, 15))

	assert.False(t, ok)
	assert.Nil(t, latest)
}

func TestParseCurrencyCode(t *testing.T) {
	code, ok := domain.ParseCurrencyCode(" usd ")
	assert.True(t, ok)
	assert.Equal(t, domain.CurrencyUSD, code)

	_, ok = domain.ParseCurrencyCode("JPY")
	assert.False(t, ok)
	assert.Equal(t, "USD_TO_NGN", domain.PairKey(domain.CurrencyUSD, domain.CurrencyNGN))
}
