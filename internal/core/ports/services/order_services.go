package services

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/dto"
)

// OrderReaderSvc defines read operations for orders
type OrderReaderSvc interface {
	// GetOrderByID returns an order visible to actor. Admins also get the decrypted username.
	GetOrderByID(ctx context.Context, actor domain.Actor, orderID string) (*domain.OrderDetails, error)
	GetOrderByReference(ctx context.Context, actor domain.Actor, reference string) (*domain.OrderDetails, error)

	// ListMyOrders lists the actor's own orders, newest first.
	ListMyOrders(ctx context.Context, actor domain.Actor, status *domain.OrderStatus) ([]domain.Order, error)

	// ListAllOrders pages through every order. Admin only.
	ListAllOrders(ctx context.Context, actor domain.Actor, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error)

	GetOrderStatistics(ctx context.Context, actor domain.Actor) (*domain.OrderStatistics, error)
}

// OrderWriterSvc defines write operations for orders
type OrderWriterSvc interface {
	// CreateOrder prices the plan in the settlement currency and stores a PENDING order.
	CreateOrder(ctx context.Context, actor domain.Actor, req dto.CreateOrderRequest) (*domain.Order, error)

	// UpdateOrderAction moves the admin workflow of an order. Admin only.
	UpdateOrderAction(ctx context.Context, actor domain.Actor, orderID string, req dto.UpdateOrderActionRequest) (*domain.Order, error)

	// CancelOrder cancels a PENDING or PAID order owned by actor, or any such order for admins.
	CancelOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error)

	// DeleteOrder hard-deletes an order. Admin only.
	DeleteOrder(ctx context.Context, actor domain.Actor, orderID string) error
}

// OrderSvcFacade combines all order-related service interfaces
type OrderSvcFacade interface {
	OrderReaderSvc
	OrderWriterSvc
}
