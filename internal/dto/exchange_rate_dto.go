package dto

import (
	"time"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for creating a new exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrency  string          `json:"fromCurrency" binding:"required,currency"`
	ToCurrency    string          `json:"toCurrency" binding:"required,currency,nefield=FromCurrency"`
	Rate          decimal.Decimal `json:"rate" binding:"required"` // positivity checked by the service
	EffectiveDate time.Time       `json:"effectiveDate" binding:"required"`
	ExpiryDate    *time.Time      `json:"expiryDate,omitempty"`
	IsActive      *bool           `json:"isActive,omitempty"`
	Source        string          `json:"source" binding:"max=100"`
	Provider      string          `json:"provider" binding:"max=100"`
}

// UpdateExchangeRateRequest replaces the mutable fields of a rate.
type UpdateExchangeRateRequest CreateExchangeRateRequest

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	FromCurrency   string          `json:"fromCurrency"`
	ToCurrency     string          `json:"toCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	EffectiveDate  time.Time       `json:"effectiveDate"`
	ExpiryDate     *time.Time      `json:"expiryDate,omitempty"`
	IsActive       bool            `json:"isActive"`
	Source         string          `json:"source"`
	Provider       string          `json:"provider"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy  string          `json:"lastUpdatedBy"`
}

// ConversionRateResponse is the rate used to convert between two currencies.
type ConversionRateResponse struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID: rate.ExchangeRateID,
		FromCurrency:   rate.FromCurrency.String(),
		ToCurrency:     rate.ToCurrency.String(),
		Rate:           rate.Rate,
		EffectiveDate:  rate.EffectiveDate,
		ExpiryDate:     rate.ExpiryDate,
		IsActive:       rate.IsActive,
		Source:         rate.Source,
		Provider:       rate.Provider,
		CreatedAt:      rate.CreatedAt,
		CreatedBy:      rate.CreatedBy,
		LastUpdatedAt:  rate.LastUpdatedAt,
		LastUpdatedBy:  rate.LastUpdatedBy,
	}
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to a slice of ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}
