package mapping

import (
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/models"
)

// ToModelOrder converts a domain Order to a model Order
func ToModelOrder(d domain.Order) models.Order {
	return models.Order{
		OrderID:                   d.OrderID,
		OrderReference:            d.OrderReference,
		UserID:                    d.UserID,
		UserName:                  d.UserName,
		Email:                     d.Email,
		PhoneNumber:               d.PhoneNumber,
		ServiceProductID:          d.ServiceProductID,
		ServiceProductName:        d.ServiceProductName,
		ServicePlanID:             d.ServicePlanID,
		ServicePlanName:           d.ServicePlanName,
		CredentialUsernameOrEmail: d.CredentialUsernameOrEmail,
		CredentialPassword:        d.CredentialPassword,
		DefaultAmount:             d.DefaultAmount,
		DefaultCurrency:           string(d.DefaultCurrency),
		Amount:                    d.Amount,
		AmountCurrency:            string(d.AmountCurrency),
		CurrencyConversionRate:    d.CurrencyConversionRate,
		ServiceFee:                d.ServiceFee,
		TotalAmount:               d.TotalAmount,
		Status:                    string(d.Status),
		Action:                    string(d.Action),
		CartID:                    d.CartID,
		Metadata:                  d.Metadata,
		AdminNotes:                d.AdminNotes,
		PaymentReference:          d.PaymentReference,
		IsInCart:                  d.IsInCart,
		AuditFields:               ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrder converts a model Order to a domain Order
func ToDomainOrder(m models.Order) domain.Order {
	return domain.Order{
		OrderID:                   m.OrderID,
		OrderReference:            m.OrderReference,
		UserID:                    m.UserID,
		UserName:                  m.UserName,
		Email:                     m.Email,
		PhoneNumber:               m.PhoneNumber,
		ServiceProductID:          m.ServiceProductID,
		ServiceProductName:        m.ServiceProductName,
		ServicePlanID:             m.ServicePlanID,
		ServicePlanName:           m.ServicePlanName,
		CredentialUsernameOrEmail: m.CredentialUsernameOrEmail,
		CredentialPassword:        m.CredentialPassword,
		DefaultAmount:             m.DefaultAmount,
		DefaultCurrency:           domain.CurrencyCode(m.DefaultCurrency),
		Amount:                    m.Amount,
		AmountCurrency:            domain.CurrencyCode(m.AmountCurrency),
		CurrencyConversionRate:    m.CurrencyConversionRate,
		ServiceFee:                m.ServiceFee,
		TotalAmount:               m.TotalAmount,
		Status:                    domain.OrderStatus(m.Status),
		Action:                    domain.OrderAction(m.Action),
		CartID:                    m.CartID,
		Metadata:                  m.Metadata,
		AdminNotes:                m.AdminNotes,
		PaymentReference:          m.PaymentReference,
		IsInCart:                  m.IsInCart,
		AuditFields:               ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainOrderSlice converts a slice of order rows.
func ToDomainOrderSlice(ms []models.Order) []domain.Order {
	out := make([]domain.Order, len(ms))
	for i, m := range ms {
		out[i] = ToDomainOrder(m)
	}
	return out
}
