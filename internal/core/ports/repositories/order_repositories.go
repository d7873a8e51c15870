package repositories

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/utils/pagination"
)

// OrderReader defines read operations for order data
type OrderReader interface {
	FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	FindOrderByReference(ctx context.Context, reference string) (*domain.Order, error)

	// ListOrdersByUser lists a user's orders, newest first, optionally by status.
	ListOrdersByUser(ctx context.Context, userID string, status *domain.OrderStatus) ([]domain.Order, error)

	// ListOrders lists all orders newest first, starting after cursor when given.
	ListOrders(ctx context.Context, filter domain.OrderFilter, after *pagination.Cursor) ([]domain.Order, error)

	// ListOrdersByCartID returns the member orders of a cart.
	ListOrdersByCartID(ctx context.Context, cartID string) ([]domain.Order, error)

	CountOrders(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
	CountOrdersByAction(ctx context.Context) (map[domain.OrderAction]int64, error)
	CountOrdersByActionIn(ctx context.Context, actions []domain.OrderAction) (int64, error)
}

// OrderWriter defines write operations for order data
type OrderWriter interface {
	SaveOrder(ctx context.Context, order domain.Order) error

	// UpdateOrder persists order if its version is unchanged and bumps the version;
	// otherwise returns apperrors.ErrConflict.
	UpdateOrder(ctx context.Context, order domain.Order) error

	DeleteOrder(ctx context.Context, orderID string) error
}

// OrderRepositoryFacade combines all order-related repository interfaces
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
}
