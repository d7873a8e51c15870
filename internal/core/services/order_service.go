package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/SscSPs/kudi_commerce/internal/utils"
	"github.com/SscSPs/kudi_commerce/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultServiceFeePercent is charged on top of every order amount.
var DefaultServiceFeePercent = decimal.NewFromInt(2)

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

// OrderConfig holds the order knobs read from configuration.
type OrderConfig struct {
	ServiceFeePercent decimal.Decimal
}

type orderService struct {
	BaseService
	orderRepo         portsrepo.OrderRepositoryFacade
	cartRepo          portsrepo.CartRepositoryFacade
	catalogRepo       portsrepo.CatalogReader
	priceRepo         portsrepo.PriceReader
	txRunner          portsrepo.TxRunner
	pricing           portssvc.PricingSvc
	cipher            *utils.CredentialCipher
	serviceFeePercent decimal.Decimal
	newReference      utils.ReferenceGenerator
}

// NewOrderService creates the order lifecycle service. Credentials are encrypted
// with cipher before they reach the repository.
func NewOrderService(
	repos portsrepo.RepositoryProvider,
	pricing portssvc.PricingSvc,
	cipher *utils.CredentialCipher,
	cfg OrderConfig,
	options ...ServiceOption,
) portssvc.OrderSvcFacade {
	svc := &orderService{
		orderRepo:         repos.OrderRepo,
		cartRepo:          repos.CartRepo,
		catalogRepo:       repos.CatalogRepo,
		priceRepo:         repos.PriceRepo,
		txRunner:          repos.TxManager,
		pricing:           pricing,
		cipher:            cipher,
		serviceFeePercent: cfg.ServiceFeePercent,
		newReference:      utils.NewReferenceGenerator(utils.OrderReferencePrefix),
	}
	if svc.serviceFeePercent.IsNegative() || svc.serviceFeePercent.IsZero() {
		svc.serviceFeePercent = DefaultServiceFeePercent
	}
	svc.applyOptions(options)
	return svc
}

var _ portssvc.OrderSvcFacade = (*orderService)(nil)

func (s *orderService) CreateOrder(ctx context.Context, actor domain.Actor, req dto.CreateOrderRequest) (*domain.Order, error) {
	product, err := s.catalogRepo.FindServiceProductByID(ctx, req.ServiceProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		s.LogDebug(ctx, "Order rejected for inactive product",
			slog.String("product_id", product.ServiceProductID),
			slog.String("status", string(product.Status)))
		return nil, fmt.Errorf("%w: service product is not available for ordering", apperrors.ErrInvalidOperation)
	}

	plan, err := s.catalogRepo.FindServicePlanByID(ctx, req.ServicePlanID)
	if err != nil {
		return nil, err
	}
	if !plan.BelongsTo(product.ServiceProductID) {
		return nil, fmt.Errorf("%w: selected plan does not belong to the specified service product", apperrors.ErrInvalidOperation)
	}
	if !plan.IsActive() {
		return nil, fmt.Errorf("%w: selected service plan is not available", apperrors.ErrInvalidOperation)
	}

	price, err := s.priceRepo.FindPriceByPlanID(ctx, plan.ServicePlanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("price for service plan " + plan.ServicePlanID)
		}
		return nil, fmt.Errorf("failed to load plan price: %w", err)
	}

	quote, err := s.pricing.ComputeAmountToPay(ctx, price.DefaultPrice, price.DefaultCurrency, s.pricing.SettlementCurrency())
	if err != nil {
		s.LogError(ctx, err, "Failed to price order", slog.String("plan_id", plan.ServicePlanID))
		return nil, err
	}

	encUsername, err := s.encrypt(req.CredentialUsernameOrEmail)
	if err != nil {
		return nil, err
	}
	encPassword, err := s.encrypt(req.CredentialPassword)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	order := domain.Order{
		OrderID:                   uuid.NewString(),
		OrderReference:            s.newReference(now),
		UserID:                    actor.UserID,
		UserName:                  actor.FullName,
		Email:                     actor.Email,
		PhoneNumber:               actor.PhoneNumber,
		ServiceProductID:          product.ServiceProductID,
		ServiceProductName:        product.Title,
		ServicePlanID:             plan.ServicePlanID,
		ServicePlanName:           plan.PlanName,
		CredentialUsernameOrEmail: encUsername,
		CredentialPassword:        encPassword,
		DefaultAmount:             price.DefaultPrice,
		DefaultCurrency:           price.DefaultCurrency,
		Amount:                    quote.Amount,
		AmountCurrency:            quote.Currency,
		CurrencyConversionRate:    quote.Rate,
		ServiceFee:                utils.PercentOf(quote.Amount, s.serviceFeePercent),
		Status:                    domain.OrderPending,
		Action:                    domain.ActionPendingReview,
		Metadata:                  req.Metadata,
		IsInCart:                  true,
		AuditFields:               domain.NewAuditFields(actor.UserID, now),
	}
	order.CalculateTotalAmount()

	if err := s.orderRepo.SaveOrder(ctx, order); err != nil {
		s.LogError(ctx, err, "Failed to save order", slog.String("order_reference", order.OrderReference))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.LogInfo(ctx, "Order created",
		slog.String("order_reference", order.OrderReference),
		slog.String("total_amount", order.TotalAmount.String()),
		slog.String("currency", order.AmountCurrency.String()))
	s.Track(actor.UserID, "order_created", map[string]any{
		"order_reference": order.OrderReference,
		"plan_id":         order.ServicePlanID,
		"currency":        order.AmountCurrency.String(),
		"total_amount":    order.TotalAmount.String(),
	})
	return &order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, actor domain.Actor, orderID string) (*domain.OrderDetails, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, actor, order)
}

func (s *orderService) GetOrderByReference(ctx context.Context, actor domain.Actor, reference string) (*domain.OrderDetails, error) {
	order, err := s.orderRepo.FindOrderByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, actor, order)
}

func (s *orderService) details(ctx context.Context, actor domain.Actor, order *domain.Order) (*domain.OrderDetails, error) {
	if err := requireOwnerOrAdmin(actor, order.UserID, "order"); err != nil {
		s.LogDebug(ctx, "Order access denied", slog.String("order_id", order.OrderID), slog.String("user_id", actor.UserID))
		return nil, err
	}
	details := &domain.OrderDetails{Order: *order}
	if actor.IsAdmin() && order.CredentialUsernameOrEmail != "" && s.cipher != nil {
		username, err := s.cipher.Decrypt(order.CredentialUsernameOrEmail)
		if err != nil {
			s.LogError(ctx, err, "Failed to decrypt order credential", slog.String("order_id", order.OrderID))
		} else {
			details.CredentialUsernameOrEmail = username
		}
	}
	return details, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, actor domain.Actor, status *domain.OrderStatus) ([]domain.Order, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status '%s'", apperrors.ErrValidation, *status)
	}
	orders, err := s.orderRepo.ListOrdersByUser(ctx, actor.UserID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) ListAllOrders(ctx context.Context, actor domain.Actor, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error) {
	if err := s.RequireAdmin(ctx, actor, "listing all orders"); err != nil {
		return nil, err
	}

	filter := domain.OrderFilter{Limit: params.Limit}
	if filter.Limit <= 0 {
		filter.Limit = defaultOrderPageSize
	}
	if filter.Limit > maxOrderPageSize {
		filter.Limit = maxOrderPageSize
	}
	if params.Status != "" {
		status := domain.OrderStatus(params.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown order status '%s'", apperrors.ErrValidation, params.Status)
		}
		filter.Status = &status
	}
	if params.Action != "" {
		action := domain.OrderAction(params.Action)
		if !action.IsValid() {
			return nil, fmt.Errorf("%w: unknown order action '%s'", apperrors.ErrValidation, params.Action)
		}
		filter.Action = &action
	}

	var after *pagination.Cursor
	if params.NextToken != "" {
		cursor, err := pagination.DecodeCursor(params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		after = cursor
	}

	// One extra row tells us whether another page exists.
	page := filter
	page.Limit = filter.Limit + 1
	orders, err := s.orderRepo.ListOrders(ctx, page, after)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	resp := &dto.ListOrdersResponse{}
	if len(orders) > filter.Limit {
		orders = orders[:filter.Limit]
		last := orders[len(orders)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.OrderID)
		resp.NextToken = &token
	}
	resp.Orders = dto.ToOrderResponses(orders)
	return resp, nil
}

func (s *orderService) UpdateOrderAction(ctx context.Context, actor domain.Actor, orderID string, req dto.UpdateOrderActionRequest) (*domain.Order, error) {
	if err := s.RequireAdmin(ctx, actor, "updating an order action"); err != nil {
		return nil, err
	}
	next := domain.OrderAction(req.Action)
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown order action '%s'", apperrors.ErrValidation, req.Action)
	}

	var order *domain.Order
	var previous domain.OrderAction
	err := s.txRunner.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orderRepo.FindOrderByID(txCtx, orderID)
		if err != nil {
			return err
		}
		previous = order.Action
		previousStatus := order.Status
		now := s.Now()
		if err := order.ApplyAction(next, req.AdminNotes, actor.UserID, now); err != nil {
			return err
		}

		// COMPLETED and REJECTED also move the status, which takes the order out of its cart.
		var activeCart *domain.Cart
		if order.Status != previousStatus {
			if activeCart, err = s.releaseFromCart(txCtx, order); err != nil {
				return err
			}
			if activeCart != nil {
				order.Detach(actor.UserID, now)
			}
		}
		if err := updateOrder(txCtx, s.orderRepo, order); err != nil {
			return err
		}
		if activeCart != nil {
			return refreshCartTotals(txCtx, s.orderRepo, s.cartRepo, activeCart, actor.UserID, now)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update order action", slog.String("order_id", orderID))
		return nil, err
	}

	s.LogInfo(ctx, "Order action updated",
		slog.String("order_id", orderID),
		slog.String("from", string(previous)),
		slog.String("to", string(next)))
	s.Track(order.UserID, "order_action_updated", map[string]any{
		"order_reference": order.OrderReference,
		"action":          string(next),
	})
	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error) {
	var cancelled *domain.Order
	err := s.txRunner.WithinTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindOrderByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAdmin(actor, order.UserID, "order"); err != nil {
			return err
		}
		now := s.Now()
		if err := order.Cancel(actor.UserID, now); err != nil {
			return err
		}

		activeCart, err := s.releaseFromCart(txCtx, order)
		if err != nil {
			return err
		}
		if activeCart != nil {
			order.Detach(actor.UserID, now)
		}
		if err := updateOrder(txCtx, s.orderRepo, order); err != nil {
			return err
		}
		if activeCart != nil {
			if err := refreshCartTotals(txCtx, s.orderRepo, s.cartRepo, activeCart, actor.UserID, now); err != nil {
				return err
			}
		}
		cancelled = order
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel order", slog.String("order_id", orderID))
		return nil, err
	}

	s.LogInfo(ctx, "Order cancelled", slog.String("order_reference", cancelled.OrderReference))
	s.Track(cancelled.UserID, "order_cancelled", map[string]any{"order_reference": cancelled.OrderReference})
	return cancelled, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, actor domain.Actor, orderID string) error {
	if err := s.RequireAdmin(ctx, actor, "deleting an order"); err != nil {
		return err
	}
	var reference string
	err := s.txRunner.WithinTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindOrderByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.IsPaid() {
			return fmt.Errorf("%w: cannot delete paid orders, cancel first if applicable", apperrors.ErrInvalidOperation)
		}
		activeCart, err := s.releaseFromCart(txCtx, order)
		if err != nil {
			return err
		}
		if err := s.orderRepo.DeleteOrder(txCtx, orderID); err != nil {
			return err
		}
		if activeCart != nil {
			if err := refreshCartTotals(txCtx, s.orderRepo, s.cartRepo, activeCart, actor.UserID, s.Now()); err != nil {
				return err
			}
		}
		reference = order.OrderReference
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete order", slog.String("order_id", orderID))
		return err
	}
	s.LogInfo(ctx, "Order deleted", slog.String("order_reference", reference))
	return nil
}

func (s *orderService) GetOrderStatistics(ctx context.Context, actor domain.Actor) (*domain.OrderStatistics, error) {
	if err := s.RequireAdmin(ctx, actor, "order statistics"); err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	byStatus, err := s.orderRepo.CountOrdersByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	byAction, err := s.orderRepo.CountOrdersByAction(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by action: %w", err)
	}
	pending, err := s.orderRepo.CountOrdersByActionIn(ctx, domain.PendingAdminActions)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	stats := &domain.OrderStatistics{
		TotalOrders:        total,
		OrdersByStatus:     make(map[domain.OrderStatus]int64, len(domain.AllOrderStatuses)),
		OrdersByAction:     make(map[domain.OrderAction]int64, len(domain.AllOrderActions)),
		PendingAdminReview: pending,
	}
	// Report every known key, zero included.
	for _, st := range domain.AllOrderStatuses {
		stats.OrdersByStatus[st] = byStatus[st]
	}
	for _, a := range domain.AllOrderActions {
		stats.OrdersByAction[a] = byAction[a]
	}
	return stats, nil
}

// releaseFromCart checks that order may leave the cart it is linked to. Members of a
// cart whose checkout is in progress are locked until the payment settles. The cart is
// returned when it is still ACTIVE and its totals have to be recomputed.
func (s *orderService) releaseFromCart(ctx context.Context, order *domain.Order) (*domain.Cart, error) {
	if order.CartID == nil {
		return nil, nil
	}
	cart, err := s.cartRepo.FindCartByID(ctx, *order.CartID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	switch cart.Status {
	case domain.CartActive:
		return cart, nil
	case domain.CartCheckoutInitiated:
		return nil, fmt.Errorf("%w: order %s is part of checkout %s, wait for the payment to settle",
			apperrors.ErrInvalidOperation, order.OrderReference, cart.CartReference)
	}
	return nil, nil
}
