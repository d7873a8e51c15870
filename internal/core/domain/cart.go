package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CartStatus is the lifecycle state of a cart.
type CartStatus string

const (
	CartActive            CartStatus = "ACTIVE"
	CartCheckoutInitiated CartStatus = "CHECKOUT_INITIATED"
	CartCompleted         CartStatus = "COMPLETED"
	CartFailed            CartStatus = "FAILED"
	CartAbandoned         CartStatus = "ABANDONED"
	CartExpired           CartStatus = "EXPIRED"
)

// DefaultCartExpiry is how long a cart may sit idle before it is reported as expired.
const DefaultCartExpiry = 7 * 24 * time.Hour

// IsSettled reports whether payment reconciliation has already finished for the cart.
func (s CartStatus) IsSettled() bool {
	return s == CartCompleted || s == CartFailed
}

// Cart groups a user's pending orders and caches their totals. Members are
// loaded by cart id; the cart never holds pointers back from orders.
type Cart struct {
	CartID           string          `json:"cartID"`
	CartReference    string          `json:"cartReference"`
	UserID           string          `json:"userID"`
	Status           CartStatus      `json:"status"`
	ItemCount        int             `json:"itemCount"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TotalServiceFee  decimal.Decimal `json:"totalServiceFee"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Currency         CurrencyCode    `json:"currency"`
	PaymentReference *string         `json:"paymentReference,omitempty"`
	AuthorizationURL *string         `json:"authorizationURL,omitempty"`
	AccessCode       *string         `json:"accessCode,omitempty"`
	CheckedOutAt     *time.Time      `json:"checkedOutAt,omitempty"`
	LastActivityAt   time.Time       `json:"lastActivityAt"`
	Orders           []Order         `json:"orders,omitempty"`
	AuditFields
}

// NewCart builds an empty ACTIVE cart for userID.
func NewCart(cartID, reference, userID string, currency CurrencyCode, now time.Time) Cart {
	return Cart{
		CartID:          cartID,
		CartReference:   reference,
		UserID:          userID,
		Status:          CartActive,
		Subtotal:        decimal.Zero,
		TotalServiceFee: decimal.Zero,
		TotalAmount:     decimal.Zero,
		Currency:        currency,
		LastActivityAt:  now,
		AuditFields:     NewAuditFields(userID, now),
	}
}

// CanBeModified is true only while the cart is ACTIVE.
func (c Cart) CanBeModified() bool { return c.Status == CartActive }

// IsEmpty reports whether the cart has no member orders.
func (c Cart) IsEmpty() bool { return len(c.Orders) == 0 }

// IsExpired reports whether the cart has been idle longer than maxIdle.
func (c Cart) IsExpired(now time.Time, maxIdle time.Duration) bool {
	return c.Status == CartActive && now.Sub(c.LastActivityAt) > maxIdle
}

// BelongsTo reports whether userID owns the cart.
func (c Cart) BelongsTo(userID string) bool { return c.UserID == userID }

// RecalculateTotals replaces the member list with orders and recomputes every cached total.
func (c *Cart) RecalculateTotals(orders []Order, now time.Time) {
	c.Orders = orders
	c.ItemCount = len(orders)
	c.Subtotal = decimal.Zero
	c.TotalServiceFee = decimal.Zero
	c.TotalAmount = decimal.Zero
	for _, o := range orders {
		c.Subtotal = c.Subtotal.Add(o.Amount)
		c.TotalServiceFee = c.TotalServiceFee.Add(o.ServiceFee)
		c.TotalAmount = c.TotalAmount.Add(o.TotalAmount)
	}
	c.LastActivityAt = now
}

// MarkCheckedOut moves an ACTIVE, non-empty cart of PENDING orders to CHECKOUT_INITIATED.
// Member orders leave active-cart visibility but stay linked.
func (c *Cart) MarkCheckedOut(paymentReference string, actorID string, now time.Time) error {
	if !c.CanBeModified() {
		return fmt.Errorf("%w: cart %s cannot be checked out in status %s",
			apperrors.ErrInvalidOperation, c.CartReference, c.Status)
	}
	if c.IsEmpty() {
		return fmt.Errorf("%w: cannot checkout an empty cart", apperrors.ErrInvalidOperation)
	}
	for _, o := range c.Orders {
		if o.Status != OrderPending {
			return fmt.Errorf("%w: order %s is %s, only PENDING orders can be checked out",
				apperrors.ErrInvalidOperation, o.OrderReference, o.Status)
		}
	}
	c.PaymentReference = &paymentReference
	c.Status = CartCheckoutInitiated
	c.CheckedOutAt = &now
	c.LastActivityAt = now
	c.Touch(actorID, now)
	for i := range c.Orders {
		c.Orders[i].IsInCart = false
		c.Orders[i].Touch(actorID, now)
	}
	return nil
}

// ApplySuccessfulPayment completes the cart and marks every member PAID. It reports
// false without changing anything when the cart was already settled.
func (c *Cart) ApplySuccessfulPayment(actorID string, now time.Time) bool {
	if c.Status.IsSettled() {
		return false
	}
	ref := c.paymentReferenceOrCartReference()
	for i := range c.Orders {
		o := &c.Orders[i]
		o.Status = OrderPaid
		o.Action = ActionPendingReview
		o.PaymentReference = &ref
		o.IsInCart = false
		o.Touch(actorID, now)
	}
	c.Status = CartCompleted
	c.LastActivityAt = now
	c.Touch(actorID, now)
	return true
}

// ApplyFailedPayment fails the cart and every member. It reports false without
// changing anything when the cart was already settled.
func (c *Cart) ApplyFailedPayment(actorID string, now time.Time) bool {
	if c.Status.IsSettled() {
		return false
	}
	ref := c.paymentReferenceOrCartReference()
	for i := range c.Orders {
		o := &c.Orders[i]
		o.Status = OrderFailed
		o.PaymentReference = &ref
		o.Touch(actorID, now)
	}
	c.Status = CartFailed
	c.LastActivityAt = now
	c.Touch(actorID, now)
	return true
}

func (c *Cart) paymentReferenceOrCartReference() string {
	if c.PaymentReference != nil && *c.PaymentReference != "" {
		return *c.PaymentReference
	}
	return c.CartReference
}

// CartSummary is a cart view enriched with live conversion rates for display.
type CartSummary struct {
	Cart      Cart                       `json:"cart"`
	IsExpired bool                       `json:"isExpired"`
	LiveRates map[string]decimal.Decimal `json:"liveRates"`
}
