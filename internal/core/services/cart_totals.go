package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
)

// refreshCartTotals reloads the members of cart and persists recomputed totals.
// Callers run it inside the transaction that changed membership.
func refreshCartTotals(ctx context.Context, orders portsrepo.OrderReader, carts portsrepo.CartWriter, cart *domain.Cart, actorID string, now time.Time) error {
	members, err := orders.ListOrdersByCartID(ctx, cart.CartID)
	if err != nil {
		return fmt.Errorf("failed to load cart members: %w", err)
	}
	cart.RecalculateTotals(members, now)
	cart.Touch(actorID, now)
	return updateCart(ctx, carts, cart)
}

// updateCart persists cart under its version and advances the in-memory copy.
func updateCart(ctx context.Context, carts portsrepo.CartWriter, cart *domain.Cart) error {
	if err := carts.UpdateCart(ctx, *cart); err != nil {
		return fmt.Errorf("failed to update cart %s: %w", cart.CartReference, err)
	}
	cart.Version++
	return nil
}

// updateOrder persists order under its version and advances the in-memory copy.
func updateOrder(ctx context.Context, orders portsrepo.OrderWriter, order *domain.Order) error {
	if err := orders.UpdateOrder(ctx, *order); err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.OrderReference, err)
	}
	order.Version++
	return nil
}
