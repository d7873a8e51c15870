package mapping

import (
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/models"
)

// ToModelCart converts a domain Cart to a model Cart. Member orders are persisted separately.
func ToModelCart(d domain.Cart) models.Cart {
	return models.Cart{
		CartID:           d.CartID,
		CartReference:    d.CartReference,
		UserID:           d.UserID,
		Status:           string(d.Status),
		ItemCount:        d.ItemCount,
		Subtotal:         d.Subtotal,
		TotalServiceFee:  d.TotalServiceFee,
		TotalAmount:      d.TotalAmount,
		Currency:         string(d.Currency),
		PaymentReference: d.PaymentReference,
		AuthorizationURL: d.AuthorizationURL,
		AccessCode:       d.AccessCode,
		CheckedOutAt:     d.CheckedOutAt,
		LastActivityAt:   d.LastActivityAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCart converts a model Cart to a domain Cart without members.
func ToDomainCart(m models.Cart) domain.Cart {
	return domain.Cart{
		CartID:           m.CartID,
		CartReference:    m.CartReference,
		UserID:           m.UserID,
		Status:           domain.CartStatus(m.Status),
		ItemCount:        m.ItemCount,
		Subtotal:         m.Subtotal,
		TotalServiceFee:  m.TotalServiceFee,
		TotalAmount:      m.TotalAmount,
		Currency:         domain.CurrencyCode(m.Currency),
		PaymentReference: m.PaymentReference,
		AuthorizationURL: m.AuthorizationURL,
		AccessCode:       m.AccessCode,
		CheckedOutAt:     m.CheckedOutAt,
		LastActivityAt:   m.LastActivityAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
