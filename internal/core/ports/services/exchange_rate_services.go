package services

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/shopspring/decimal"
)

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetExchangeRateByID retrieves a rate by id, active or not.
	GetExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error)

	// GetLatestEffectiveRate returns the rate for the pair that is effective now and
	// has the most recent effective date.
	GetLatestEffectiveRate(ctx context.Context, from, to domain.CurrencyCode) (*domain.ExchangeRate, error)

	// ListEffectiveRates returns one latest effective rate per currency pair.
	ListEffectiveRates(ctx context.Context) ([]domain.ExchangeRate, error)

	// GetConversionRate returns the multiplier converting from into to. Identical
	// currencies always convert at 1.
	GetConversionRate(ctx context.Context, from, to domain.CurrencyCode) (decimal.Decimal, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
	UpdateExchangeRate(ctx context.Context, rateID string, req dto.UpdateExchangeRateRequest, userID string) (*domain.ExchangeRate, error)

	// DeleteExchangeRate deactivates a rate; history is kept.
	DeleteExchangeRate(ctx context.Context, rateID string, userID string) error
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
