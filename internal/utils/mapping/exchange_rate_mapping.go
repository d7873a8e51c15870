package mapping

import (
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID: d.ExchangeRateID,
		FromCurrency:   string(d.FromCurrency),
		ToCurrency:     string(d.ToCurrency),
		Rate:           d.Rate,
		EffectiveDate:  d.EffectiveDate,
		ExpiryDate:     d.ExpiryDate,
		IsActive:       d.IsActive,
		Source:         d.Source,
		Provider:       d.Provider,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID: m.ExchangeRateID,
		FromCurrency:   domain.CurrencyCode(m.FromCurrency),
		ToCurrency:     domain.CurrencyCode(m.ToCurrency),
		Rate:           m.Rate,
		EffectiveDate:  m.EffectiveDate,
		ExpiryDate:     m.ExpiryDate,
		IsActive:       m.IsActive,
		Source:         m.Source,
		Provider:       m.Provider,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExchangeRateSlice converts a slice of model rates.
func ToDomainExchangeRateSlice(ms []models.ExchangeRate) []domain.ExchangeRate {
	out := make([]domain.ExchangeRate, len(ms))
	for i, m := range ms {
		out[i] = ToDomainExchangeRate(m)
	}
	return out
}
