package services

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/shopspring/decimal"
)

// PricingSvc converts catalog prices into the settlement currency.
type PricingSvc interface {
	// ComputeAmountToPay converts defaultPrice from one currency to another at the
	// latest effective rate, rounded half-up to four decimal places.
	ComputeAmountToPay(ctx context.Context, defaultPrice decimal.Decimal, from, to domain.CurrencyCode) (*domain.PriceQuote, error)

	// IsStale reports whether the rate stamped on price is too old to trust.
	IsStale(price domain.ServiceProductPrice) bool

	// SettlementCurrency is the currency every order is charged in.
	SettlementCurrency() domain.CurrencyCode
}

// PriceManagementSvc maintains stored plan prices.
type PriceManagementSvc interface {
	// CreateOrUpdatePrice upserts the price of a plan and reports whether it was created.
	CreateOrUpdatePrice(ctx context.Context, req dto.UpsertPriceRequest, userID string) (*domain.ServiceProductPrice, bool, error)
	GetPriceByPlanID(ctx context.Context, planID string) (*domain.ServiceProductPrice, error)

	// RefreshRate recomputes the amount to pay of a stored price at the current rate.
	RefreshRate(ctx context.Context, priceID string, userID string) (*domain.ServiceProductPrice, error)
	DeletePrice(ctx context.Context, priceID string, userID string) error
}

// PricingSvcFacade combines all pricing-related service interfaces
type PricingSvcFacade interface {
	PricingSvc
	PriceManagementSvc
}
