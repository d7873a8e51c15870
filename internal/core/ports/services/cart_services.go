package services

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
)

// CartReaderSvc defines read operations for carts
type CartReaderSvc interface {
	// GetActiveCart returns the actor's ACTIVE cart with members, or a not-found error.
	GetActiveCart(ctx context.Context, actor domain.Actor) (*domain.Cart, error)

	// GetCartSummary returns the actor's cart with display-only live rates.
	GetCartSummary(ctx context.Context, actor domain.Actor) (*domain.CartSummary, error)

	// ListCarts returns every cart the actor ever had, newest first.
	ListCarts(ctx context.Context, actor domain.Actor) ([]domain.Cart, error)
}

// CartWriterSvc defines write operations for carts
type CartWriterSvc interface {
	// GetOrCreateCart returns the actor's ACTIVE cart, creating it when missing.
	// Concurrent callers for one user always end up with the same cart.
	GetOrCreateCart(ctx context.Context, actor domain.Actor) (*domain.Cart, error)

	AddOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Cart, error)
	RemoveOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, actor domain.Actor) (*domain.Cart, error)

	// ProceedToCheckout freezes the cart under a fresh payment reference.
	ProceedToCheckout(ctx context.Context, actor domain.Actor) (*domain.Cart, error)
}

// CartSvcFacade combines all cart-related service interfaces
type CartSvcFacade interface {
	CartReaderSvc
	CartWriterSvc
}
