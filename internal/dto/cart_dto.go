package dto

import (
	"time"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CartResponse is a cart with its member orders.
type CartResponse struct {
	CartID           string          `json:"cartID"`
	CartReference    string          `json:"cartReference"`
	UserID           string          `json:"userID"`
	Status           string          `json:"status"`
	ItemCount        int             `json:"itemCount"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TotalServiceFee  decimal.Decimal `json:"totalServiceFee"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Currency         string          `json:"currency"`
	PaymentReference *string         `json:"paymentReference,omitempty"`
	AuthorizationURL *string         `json:"authorizationURL,omitempty"`
	CheckedOutAt     *time.Time      `json:"checkedOutAt,omitempty"`
	LastActivityAt   time.Time       `json:"lastActivityAt"`
	Orders           []OrderResponse `json:"orders"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// CartSummaryResponse adds display-only live rates and expiry to a cart.
type CartSummaryResponse struct {
	CartResponse
	IsExpired bool                       `json:"isExpired"`
	LiveRates map[string]decimal.Decimal `json:"liveRates"`
}

// ToCartResponse converts a domain.Cart and its loaded members.
func ToCartResponse(c *domain.Cart) CartResponse {
	return CartResponse{
		CartID:           c.CartID,
		CartReference:    c.CartReference,
		UserID:           c.UserID,
		Status:           string(c.Status),
		ItemCount:        c.ItemCount,
		Subtotal:         c.Subtotal,
		TotalServiceFee:  c.TotalServiceFee,
		TotalAmount:      c.TotalAmount,
		Currency:         c.Currency.String(),
		PaymentReference: c.PaymentReference,
		AuthorizationURL: c.AuthorizationURL,
		CheckedOutAt:     c.CheckedOutAt,
		LastActivityAt:   c.LastActivityAt,
		Orders:           ToOrderResponses(c.Orders),
		CreatedAt:        c.CreatedAt,
	}
}

// ToCartSummaryResponse converts a domain.CartSummary.
func ToCartSummaryResponse(s *domain.CartSummary) CartSummaryResponse {
	return CartSummaryResponse{
		CartResponse: ToCartResponse(&s.Cart),
		IsExpired:    s.IsExpired,
		LiveRates:    s.LiveRates,
	}
}

// ToCartResponses converts a slice of domain.Cart to []CartResponse.
func ToCartResponses(carts []domain.Cart) []CartResponse {
	responses := make([]CartResponse, len(carts))
	for i := range carts {
		responses[i] = ToCartResponse(&carts[i])
	}
	return responses
}
