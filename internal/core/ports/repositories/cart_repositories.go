package repositories

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
)

// CartReader defines read operations for cart data. Returned carts carry no members;
// load them through OrderReader.ListOrdersByCartID.
type CartReader interface {
	FindCartByID(ctx context.Context, cartID string) (*domain.Cart, error)
	FindCartByReference(ctx context.Context, reference string) (*domain.Cart, error)
	FindCartByPaymentReference(ctx context.Context, paymentReference string) (*domain.Cart, error)
	FindActiveCartByUser(ctx context.Context, userID string) (*domain.Cart, error)
	ListCartsByUser(ctx context.Context, userID string) ([]domain.Cart, error)
}

// CartWriter defines write operations for cart data
type CartWriter interface {
	// SaveCart inserts a cart. A second ACTIVE cart for the same user returns apperrors.ErrDuplicate.
	SaveCart(ctx context.Context, cart domain.Cart) error

	// UpdateCart persists cart if its version is unchanged and bumps the version;
	// otherwise returns apperrors.ErrConflict.
	UpdateCart(ctx context.Context, cart domain.Cart) error
}

// CartRepositoryFacade combines all cart-related repository interfaces
type CartRepositoryFacade interface {
	CartReader
	CartWriter
}
