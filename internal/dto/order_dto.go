package dto

import (
	"time"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest places an order for one plan on behalf of the caller.
type CreateOrderRequest struct {
	ServiceProductID          string         `json:"serviceProductID" binding:"required"`
	ServicePlanID             string         `json:"servicePlanID" binding:"required"`
	CredentialUsernameOrEmail string         `json:"credentialUsernameOrEmail,omitempty" binding:"max=255"`
	CredentialPassword        string         `json:"credentialPassword,omitempty" binding:"max=255"`
	Metadata                  map[string]any `json:"metadata,omitempty"`
}

// UpdateOrderActionRequest moves an order along the admin workflow.
type UpdateOrderActionRequest struct {
	Action     string `json:"action" binding:"required,order_action"`
	AdminNotes string `json:"adminNotes" binding:"max=2000"`
}

// ListOrdersParams defines query parameters for the admin order listing.
type ListOrdersParams struct {
	Status    string `form:"status" binding:"omitempty,order_status"`
	Action    string `form:"action" binding:"omitempty,order_action"`
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// OrderResponse is an order as returned to API callers.
type OrderResponse struct {
	OrderID                   string          `json:"orderID"`
	OrderReference            string          `json:"orderReference"`
	UserID                    string          `json:"userID"`
	UserName                  string          `json:"userName"`
	Email                     string          `json:"email"`
	PhoneNumber               string          `json:"phoneNumber,omitempty"`
	ServiceProductID          string          `json:"serviceProductID"`
	ServiceProductName        string          `json:"serviceProductName"`
	ServicePlanID             string          `json:"servicePlanID"`
	ServicePlanName           string          `json:"servicePlanName"`
	CredentialUsernameOrEmail string          `json:"credentialUsernameOrEmail,omitempty"`
	DefaultAmount             decimal.Decimal `json:"defaultAmount"`
	DefaultCurrency           string          `json:"defaultCurrency"`
	Amount                    decimal.Decimal `json:"amount"`
	AmountCurrency            string          `json:"amountCurrency"`
	CurrencyConversionRate    decimal.Decimal `json:"currencyConversionRate"`
	ServiceFee                decimal.Decimal `json:"serviceFee"`
	TotalAmount               decimal.Decimal `json:"totalAmount"`
	Status                    string          `json:"status"`
	Action                    string          `json:"action"`
	CartID                    *string         `json:"cartID,omitempty"`
	IsInCart                  bool            `json:"isInCart"`
	PaymentReference          *string         `json:"paymentReference,omitempty"`
	AdminNotes                string          `json:"adminNotes,omitempty"`
	Metadata                  map[string]any  `json:"metadata,omitempty"`
	CreatedAt                 time.Time       `json:"createdAt"`
	LastUpdatedAt             time.Time       `json:"lastUpdatedAt"`
}

// ListOrdersResponse is one page of the admin order listing.
type ListOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToOrderResponse converts a domain.Order. The encrypted credential is never exposed.
func ToOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		OrderID:                o.OrderID,
		OrderReference:         o.OrderReference,
		UserID:                 o.UserID,
		UserName:               o.UserName,
		Email:                  o.Email,
		PhoneNumber:            o.PhoneNumber,
		ServiceProductID:       o.ServiceProductID,
		ServiceProductName:     o.ServiceProductName,
		ServicePlanID:          o.ServicePlanID,
		ServicePlanName:        o.ServicePlanName,
		DefaultAmount:          o.DefaultAmount,
		DefaultCurrency:        o.DefaultCurrency.String(),
		Amount:                 o.Amount,
		AmountCurrency:         o.AmountCurrency.String(),
		CurrencyConversionRate: o.CurrencyConversionRate,
		ServiceFee:             o.ServiceFee,
		TotalAmount:            o.TotalAmount,
		Status:                 string(o.Status),
		Action:                 string(o.Action),
		CartID:                 o.CartID,
		IsInCart:               o.IsInCart,
		PaymentReference:       o.PaymentReference,
		AdminNotes:             o.AdminNotes,
		Metadata:               o.Metadata,
		CreatedAt:              o.CreatedAt,
		LastUpdatedAt:          o.LastUpdatedAt,
	}
}

// ToOrderDetailsResponse converts a domain.OrderDetails, keeping the decrypted username
// when the service chose to reveal it.
func ToOrderDetailsResponse(d *domain.OrderDetails) OrderResponse {
	resp := ToOrderResponse(&d.Order)
	resp.CredentialUsernameOrEmail = d.CredentialUsernameOrEmail
	return resp
}

// ToOrderResponses converts a slice of domain.Order to []OrderResponse.
func ToOrderResponses(orders []domain.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
