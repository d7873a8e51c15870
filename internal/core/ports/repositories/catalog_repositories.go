package repositories

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
)

// CatalogReader exposes the read-only view of products and plans this service needs.
type CatalogReader interface {
	FindServiceProductByID(ctx context.Context, productID string) (*domain.ServiceProduct, error)
	FindServicePlanByID(ctx context.Context, planID string) (*domain.ServicePlan, error)
}

// PriceReader defines read operations for plan prices
type PriceReader interface {
	FindPriceByID(ctx context.Context, priceID string) (*domain.ServiceProductPrice, error)
	FindPriceByPlanID(ctx context.Context, planID string) (*domain.ServiceProductPrice, error)
}

// PriceWriter defines write operations for plan prices
type PriceWriter interface {
	// SavePrice upserts the single price row of a plan.
	SavePrice(ctx context.Context, price domain.ServiceProductPrice) error
	DeletePrice(ctx context.Context, priceID string) error
}

// PriceRepositoryFacade combines all price-related repository interfaces
type PriceRepositoryFacade interface {
	PriceReader
	PriceWriter
}
