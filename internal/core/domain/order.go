package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/shopspring/decimal"
)

// OrderStatus tracks the payment/fulfilment lifecycle of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderPaid       OrderStatus = "PAID"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderRefunded   OrderStatus = "REFUNDED"
	OrderFailed     OrderStatus = "FAILED"
)

// AllOrderStatuses lists every status, in lifecycle order.
var AllOrderStatuses = []OrderStatus{
	OrderPending, OrderPaid, OrderProcessing, OrderCompleted,
	OrderCancelled, OrderRefunded, OrderFailed,
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	for _, v := range AllOrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is expected.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderCompleted, OrderCancelled, OrderRefunded, OrderFailed:
		return true
	}
	return false
}

// OrderAction is the admin fulfilment workflow state, independent of OrderStatus.
type OrderAction string

const (
	ActionPendingReview OrderAction = "PENDING_REVIEW"
	ActionInProgress    OrderAction = "IN_PROGRESS"
	ActionCompleted     OrderAction = "COMPLETED"
	ActionRejected      OrderAction = "REJECTED"
	ActionRequiresInfo  OrderAction = "REQUIRES_INFO"
)

// AllOrderActions lists every admin action.
var AllOrderActions = []OrderAction{
	ActionPendingReview, ActionInProgress, ActionCompleted, ActionRejected, ActionRequiresInfo,
}

// PendingAdminActions are the actions that still need an admin.
var PendingAdminActions = []OrderAction{ActionPendingReview, ActionInProgress, ActionRequiresInfo}

var actionTransitions = map[OrderAction][]OrderAction{
	ActionPendingReview: {ActionInProgress, ActionRejected, ActionRequiresInfo},
	ActionInProgress:    {ActionCompleted, ActionRequiresInfo},
	ActionRequiresInfo:  {ActionInProgress, ActionRejected},
}

// IsValid reports whether a is a known action.
func (a OrderAction) IsValid() bool {
	for _, v := range AllOrderActions {
		if v == a {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the workflow allows moving from a to next.
// COMPLETED and REJECTED have no outgoing transitions.
func (a OrderAction) CanTransitionTo(next OrderAction) bool {
	for _, allowed := range actionTransitions[a] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a snapshot of a purchase intent. Product and plan names are copied at
// creation so later catalog edits don't rewrite history.
type Order struct {
	OrderID                   string          `json:"orderID"`
	OrderReference            string          `json:"orderReference"`
	UserID                    string          `json:"userID"`
	UserName                  string          `json:"userName"`
	Email                     string          `json:"email"`
	PhoneNumber               string          `json:"phoneNumber"`
	ServiceProductID          string          `json:"serviceProductID"`
	ServiceProductName        string          `json:"serviceProductName"`
	ServicePlanID             string          `json:"servicePlanID"`
	ServicePlanName           string          `json:"servicePlanName"`
	CredentialUsernameOrEmail string          `json:"-"` // encrypted at rest
	CredentialPassword        string          `json:"-"` // encrypted at rest
	DefaultAmount             decimal.Decimal `json:"defaultAmount"`
	DefaultCurrency           CurrencyCode    `json:"defaultCurrency"`
	Amount                    decimal.Decimal `json:"amount"`
	AmountCurrency            CurrencyCode    `json:"amountCurrency"`
	CurrencyConversionRate    decimal.Decimal `json:"currencyConversionRate"`
	ServiceFee                decimal.Decimal `json:"serviceFee"`
	TotalAmount               decimal.Decimal `json:"totalAmount"`
	Status                    OrderStatus     `json:"status"`
	Action                    OrderAction     `json:"action"`
	CartID                    *string         `json:"cartID,omitempty"`
	Metadata                  map[string]any  `json:"metadata,omitempty"`
	AdminNotes                string          `json:"adminNotes,omitempty"`
	PaymentReference          *string         `json:"paymentReference,omitempty"`
	IsInCart                  bool            `json:"isInCart"`
	AuditFields
}

// CalculateTotalAmount sets TotalAmount = Amount + ServiceFee.
func (o *Order) CalculateTotalAmount() {
	o.TotalAmount = o.Amount.Add(o.ServiceFee)
}

// CanBeCancelled is true only for PENDING and PAID orders.
func (o Order) CanBeCancelled() bool {
	return o.Status == OrderPending || o.Status == OrderPaid
}

// IsPaid is true once money has been collected.
func (o Order) IsPaid() bool {
	switch o.Status {
	case OrderPaid, OrderProcessing, OrderCompleted:
		return true
	}
	return false
}

// CanBeModified is true while the order is pending and sitting in a cart.
func (o Order) CanBeModified() bool {
	return o.Status == OrderPending && o.IsInCart
}

// RequiresAdminAttention is true while an admin still owes work on the order.
func (o Order) RequiresAdminAttention() bool {
	return o.Action == ActionPendingReview || o.Action == ActionInProgress
}

// BelongsTo reports whether userID owns the order.
func (o Order) BelongsTo(userID string) bool { return o.UserID == userID }

// ApplyAction moves the admin workflow to next. COMPLETED forces status COMPLETED and
// REJECTED forces status CANCELLED.
func (o *Order) ApplyAction(next OrderAction, adminNotes string, actorID string, now time.Time) error {
	if !o.Action.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot move order action from %s to %s",
			apperrors.ErrInvalidActionTransition, o.Action, next)
	}
	o.Action = next
	switch next {
	case ActionCompleted:
		o.Status = OrderCompleted
	case ActionRejected:
		o.Status = OrderCancelled
	}
	if adminNotes != "" {
		o.AdminNotes = adminNotes
	}
	o.Touch(actorID, now)
	return nil
}

// Cancel marks a PENDING or PAID order cancelled and rejected.
func (o *Order) Cancel(actorID string, now time.Time) error {
	if !o.CanBeCancelled() {
		return fmt.Errorf("%w: order %s cannot be cancelled in status %s",
			apperrors.ErrInvalidOperation, o.OrderReference, o.Status)
	}
	o.Status = OrderCancelled
	o.Action = ActionRejected
	o.Touch(actorID, now)
	return nil
}

// AttachTo links the order to cartID as an active cart member.
func (o *Order) AttachTo(cartID string, actorID string, now time.Time) {
	o.CartID = &cartID
	o.IsInCart = true
	o.Touch(actorID, now)
}

// Detach unlinks the order from its cart.
func (o *Order) Detach(actorID string, now time.Time) {
	o.CartID = nil
	o.IsInCart = false
	o.Touch(actorID, now)
}

// OrderStatistics aggregates order counts for the admin dashboard.
type OrderStatistics struct {
	TotalOrders        int64                 `json:"totalOrders"`
	OrdersByStatus     map[OrderStatus]int64 `json:"ordersByStatus"`
	OrdersByAction     map[OrderAction]int64 `json:"ordersByAction"`
	PendingAdminReview int64                 `json:"pendingAdminReview"`
}

// OrderFilter narrows admin order listings. Listings page by cursor, newest first.
type OrderFilter struct {
	Status *OrderStatus
	Action *OrderAction
	Limit  int
}

// OrderDetails is an order as shown to one caller. Admins also see the
// decrypted account username the order was placed for.
type OrderDetails struct {
	Order
	CredentialUsernameOrEmail string `json:"credentialUsernameOrEmail,omitempty"`
}
