package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindExchangeRateByID retrieves a rate by id.
	FindExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error)

	// FindLatestEffectiveRate returns the effective rate for the pair at `at` with the most
	// recent effective date, or apperrors.ErrRateNotFound.
	FindLatestEffectiveRate(ctx context.Context, from, to domain.CurrencyCode, at time.Time) (*domain.ExchangeRate, error)

	// ListEffectiveRates returns every rate effective at `at`, across all pairs.
	ListEffectiveRates(ctx context.Context, at time.Time) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate inserts a new rate. A duplicate (from, to, effective date) returns apperrors.ErrDuplicate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// UpdateExchangeRate overwrites a rate in place.
	UpdateExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// DeactivateExchangeRate soft-deletes a rate.
	DeactivateExchangeRate(ctx context.Context, rateID string, userID string, now time.Time) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
