package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLiveRateCacheTTL bounds how long a displayed live rate may be reused.
const DefaultLiveRateCacheTTL = 5 * time.Minute

// CartConfig holds the cart knobs read from configuration.
type CartConfig struct {
	Currency           domain.CurrencyCode
	Expiry             time.Duration
	LiveRateCurrencies []domain.CurrencyCode
	LiveRateCacheTTL   time.Duration
}

type cartService struct {
	BaseService
	cartRepo      portsrepo.CartRepositoryFacade
	orderRepo     portsrepo.OrderRepositoryFacade
	txRunner      portsrepo.TxRunner
	rates         portssvc.ExchangeRateReaderSvc
	rateCache     gateways.RateSnapshotCache
	cfg           CartConfig
	newCartRef    utils.ReferenceGenerator
	newPaymentRef utils.ReferenceGenerator
}

// NewCartService creates the cart service. rateCache may be nil.
func NewCartService(
	repos portsrepo.RepositoryProvider,
	rates portssvc.ExchangeRateReaderSvc,
	rateCache gateways.RateSnapshotCache,
	cfg CartConfig,
	options ...ServiceOption,
) portssvc.CartSvcFacade {
	if !cfg.Currency.IsValid() {
		cfg.Currency = domain.CurrencyNGN
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = domain.DefaultCartExpiry
	}
	if cfg.LiveRateCacheTTL <= 0 {
		cfg.LiveRateCacheTTL = DefaultLiveRateCacheTTL
	}
	svc := &cartService{
		cartRepo:      repos.CartRepo,
		orderRepo:     repos.OrderRepo,
		txRunner:      repos.TxManager,
		rates:         rates,
		rateCache:     rateCache,
		cfg:           cfg,
		newCartRef:    utils.NewReferenceGenerator(utils.CartReferencePrefix),
		newPaymentRef: utils.NewReferenceGenerator(utils.PaymentReferencePrefix),
	}
	svc.applyOptions(options)
	return svc
}

var _ portssvc.CartSvcFacade = (*cartService)(nil)

func (s *cartService) GetOrCreateCart(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindActiveCartByUser(ctx, actor.UserID)
	if err == nil {
		return s.withMembers(ctx, cart)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load active cart: %w", err)
	}

	now := s.Now()
	fresh := domain.NewCart(uuid.NewString(), s.newCartRef(now), actor.UserID, s.cfg.Currency, now)
	err = s.cartRepo.SaveCart(ctx, fresh)
	switch {
	case err == nil:
		s.LogInfo(ctx, "Cart created", slog.String("cart_reference", fresh.CartReference))
		return &fresh, nil
	case errors.Is(err, apperrors.ErrDuplicate):
		// Another request created the ACTIVE cart first; use theirs.
		s.LogDebug(ctx, "Active cart created concurrently, re-fetching", slog.String("user_id", actor.UserID))
		cart, err = s.cartRepo.FindActiveCartByUser(ctx, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-fetch active cart: %w", err)
		}
		return s.withMembers(ctx, cart)
	default:
		s.LogError(ctx, err, "Failed to create cart")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
}

func (s *cartService) GetActiveCart(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindActiveCartByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.withMembers(ctx, cart)
}

func (s *cartService) AddOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Cart, error) {
	// Creating the cart may hit the one-ACTIVE-cart constraint, which would abort a
	// surrounding transaction, so it happens first.
	active, err := s.GetOrCreateCart(ctx, actor)
	if err != nil {
		return nil, err
	}

	var result *domain.Cart
	err = s.txRunner.WithinTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindOrderByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if !order.BelongsTo(actor.UserID) {
			return fmt.Errorf("%w: you are not authorized to add this order to cart", apperrors.ErrUnauthorized)
		}
		if order.Status != domain.OrderPending {
			return fmt.Errorf("%w: only pending orders can be added to cart", apperrors.ErrInvalidOperation)
		}

		if order.CartID != nil {
			current, err := s.cartRepo.FindCartByID(txCtx, *order.CartID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			if current != nil {
				switch current.Status {
				case domain.CartActive:
					s.LogDebug(txCtx, "Order already in cart", slog.String("order_id", orderID))
					result, err = s.withMembers(txCtx, current)
					return err
				case domain.CartCheckoutInitiated:
					return fmt.Errorf("%w: order %s is part of a checkout in progress",
						apperrors.ErrInvalidOperation, order.OrderReference)
				}
			}
		}

		cart, err := s.cartRepo.FindCartByID(txCtx, active.CartID)
		if err != nil {
			return err
		}
		if !cart.CanBeModified() {
			return fmt.Errorf("%w: cart %s can no longer be modified", apperrors.ErrInvalidOperation, cart.CartReference)
		}

		now := s.Now()
		order.AttachTo(cart.CartID, actor.UserID, now)
		if err := updateOrder(txCtx, s.orderRepo, order); err != nil {
			return err
		}
		if err := refreshCartTotals(txCtx, s.orderRepo, s.cartRepo, cart, actor.UserID, now); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to add order to cart", slog.String("order_id", orderID))
		return nil, err
	}
	s.LogInfo(ctx, "Order added to cart",
		slog.String("order_id", orderID),
		slog.String("cart_reference", result.CartReference),
		slog.Int("item_count", result.ItemCount))
	return result, nil
}

func (s *cartService) RemoveOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Cart, error) {
	var result *domain.Cart
	err := s.txRunner.WithinTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindOrderByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if !order.BelongsTo(actor.UserID) {
			return fmt.Errorf("%w: you are not authorized to remove this order", apperrors.ErrUnauthorized)
		}
		if order.CartID == nil {
			return fmt.Errorf("%w: order %s is not in a cart", apperrors.ErrInvalidOperation, order.OrderReference)
		}
		cart, err := s.cartRepo.FindCartByID(txCtx, *order.CartID)
		if err != nil {
			return err
		}
		if !cart.BelongsTo(actor.UserID) {
			return fmt.Errorf("%w: cart belongs to another user", apperrors.ErrUnauthorized)
		}
		if !cart.CanBeModified() {
			return fmt.Errorf("%w: cart %s cannot be modified in status %s",
				apperrors.ErrInvalidOperation, cart.CartReference, cart.Status)
		}

		now := s.Now()
		order.Detach(actor.UserID, now)
		if err := updateOrder(txCtx, s.orderRepo, order); err != nil {
			return err
		}
		if err := refreshCartTotals(txCtx, s.orderRepo, s.cartRepo, cart, actor.UserID, now); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to remove order from cart", slog.String("order_id", orderID))
		return nil, err
	}
	return result, nil
}

func (s *cartService) ClearCart(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	var result *domain.Cart
	err := s.txRunner.WithinTx(ctx, func(txCtx context.Context) error {
		cart, err := s.cartRepo.FindActiveCartByUser(txCtx, actor.UserID)
		if err != nil {
			return err
		}
		if !cart.CanBeModified() {
			return fmt.Errorf("%w: cart %s cannot be modified", apperrors.ErrInvalidOperation, cart.CartReference)
		}
		members, err := s.orderRepo.ListOrdersByCartID(txCtx, cart.CartID)
		if err != nil {
			return err
		}
		now := s.Now()
		for i := range members {
			members[i].Detach(actor.UserID, now)
			if err := updateOrder(txCtx, s.orderRepo, &members[i]); err != nil {
				return err
			}
		}
		if err := refreshCartTotals(txCtx, s.orderRepo, s.cartRepo, cart, actor.UserID, now); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to clear cart")
		return nil, err
	}
	s.LogInfo(ctx, "Cart cleared", slog.String("cart_reference", result.CartReference))
	return result, nil
}

func (s *cartService) GetCartSummary(ctx context.Context, actor domain.Actor) (*domain.CartSummary, error) {
	cart, err := s.GetActiveCart(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &domain.CartSummary{
		Cart:      *cart,
		IsExpired: cart.IsExpired(s.Now(), s.cfg.Expiry),
		LiveRates: s.liveRates(ctx, cart.Currency),
	}, nil
}

// liveRates snapshots display rates into the cart currency. Lookup failures are
// logged and the pair skipped.
func (s *cartService) liveRates(ctx context.Context, target domain.CurrencyCode) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal, len(s.cfg.LiveRateCurrencies))
	for _, from := range s.cfg.LiveRateCurrencies {
		if from == target {
			continue
		}
		key := domain.PairKey(from, target)
		if s.rateCache != nil {
			cached, ok, err := s.rateCache.GetRate(ctx, key)
			if err != nil {
				s.LogError(ctx, err, "Rate cache read failed", slog.String("pair", key))
			} else if ok {
				rates[key] = cached
				continue
			}
		}
		rate, err := s.rates.GetConversionRate(ctx, from, target)
		if err != nil {
			s.LogError(ctx, err, "Failed to fetch live rate", slog.String("pair", key))
			continue
		}
		rates[key] = rate
		if s.rateCache != nil {
			if err := s.rateCache.SetRate(ctx, key, rate, s.cfg.LiveRateCacheTTL); err != nil {
				s.LogError(ctx, err, "Rate cache write failed", slog.String("pair", key))
			}
		}
	}
	return rates
}

func (s *cartService) ProceedToCheckout(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	var result *domain.Cart
	err := s.txRunner.WithinTx(ctx, func(txCtx context.Context) error {
		cart, err := s.cartRepo.FindActiveCartByUser(txCtx, actor.UserID)
		if err != nil {
			return err
		}
		cart, err = s.withMembers(txCtx, cart)
		if err != nil {
			return err
		}

		now := s.Now()
		if err := cart.MarkCheckedOut(s.newPaymentRef(now), actor.UserID, now); err != nil {
			return err
		}
		if err := updateCart(txCtx, s.cartRepo, cart); err != nil {
			return err
		}
		for i := range cart.Orders {
			if err := updateOrder(txCtx, s.orderRepo, &cart.Orders[i]); err != nil {
				return err
			}
		}
		result = cart
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Checkout failed")
		return nil, err
	}

	s.LogInfo(ctx, "Checkout initiated",
		slog.String("cart_reference", result.CartReference),
		slog.String("payment_reference", *result.PaymentReference),
		slog.String("total_amount", result.TotalAmount.String()))
	s.Track(actor.UserID, "checkout_initiated", map[string]any{
		"cart_reference":    result.CartReference,
		"payment_reference": *result.PaymentReference,
		"item_count":        result.ItemCount,
		"total_amount":      result.TotalAmount.String(),
	})
	return result, nil
}

func (s *cartService) ListCarts(ctx context.Context, actor domain.Actor) ([]domain.Cart, error) {
	carts, err := s.cartRepo.ListCartsByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}
	for i := range carts {
		members, err := s.orderRepo.ListOrdersByCartID(ctx, carts[i].CartID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cart members: %w", err)
		}
		carts[i].Orders = members
	}
	return carts, nil
}

func (s *cartService) withMembers(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	members, err := s.orderRepo.ListOrdersByCartID(ctx, cart.CartID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart members: %w", err)
	}
	cart.Orders = members
	return cart, nil
}
