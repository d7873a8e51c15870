package mapping

import (
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/models"
)

// ToDomainServiceProduct converts a model ServiceProduct to a domain ServiceProduct
func ToDomainServiceProduct(m models.ServiceProduct) domain.ServiceProduct {
	return domain.ServiceProduct{
		ServiceProductID: m.ServiceProductID,
		Title:            m.Title,
		Description:      m.Description,
		Category:         m.Category,
		Status:           domain.ServiceProductStatus(m.Status),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainServicePlan converts a model ServicePlan to a domain ServicePlan
func ToDomainServicePlan(m models.ServicePlan) domain.ServicePlan {
	return domain.ServicePlan{
		ServicePlanID:    m.ServicePlanID,
		ServiceProductID: m.ServiceProductID,
		PlanName:         m.PlanName,
		Description:      m.Description,
		Amount:           m.Amount,
		Currency:         domain.CurrencyCode(m.Currency),
		Status:           domain.ServicePlanStatus(m.Status),
		PlanType:         domain.ServicePlanType(m.PlanType),
		DisplayOrder:     m.DisplayOrder,
		IsFeatured:       m.IsFeatured,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelServiceProductPrice converts a domain price to its row form.
func ToModelServiceProductPrice(d domain.ServiceProductPrice) models.ServiceProductPrice {
	return models.ServiceProductPrice{
		PriceID:         d.PriceID,
		ServicePlanID:   d.ServicePlanID,
		DefaultPrice:    d.DefaultPrice,
		DefaultCurrency: string(d.DefaultCurrency),
		AmountToPay:     d.AmountToPay,
		AmountCurrency:  string(d.AmountCurrency),
		ConversionRate:  d.ConversionRate,
		RateTimestamp:   d.RateTimestamp,
		RateSource:      d.RateSource,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainServiceProductPrice converts a price row to the domain price.
func ToDomainServiceProductPrice(m models.ServiceProductPrice) domain.ServiceProductPrice {
	return domain.ServiceProductPrice{
		PriceID:         m.PriceID,
		ServicePlanID:   m.ServicePlanID,
		DefaultPrice:    m.DefaultPrice,
		DefaultCurrency: domain.CurrencyCode(m.DefaultCurrency),
		AmountToPay:     m.AmountToPay,
		AmountCurrency:  domain.CurrencyCode(m.AmountCurrency),
		ConversionRate:  m.ConversionRate,
		RateTimestamp:   m.RateTimestamp,
		RateSource:      m.RateSource,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
