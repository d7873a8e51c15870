package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceProductStatus is the publication state of a catalog product.
type ServiceProductStatus string

const (
	ProductDraft    ServiceProductStatus = "DRAFT"
	ProductActive   ServiceProductStatus = "ACTIVE"
	ProductInactive ServiceProductStatus = "INACTIVE"
	ProductArchived ServiceProductStatus = "ARCHIVED"
)

// ServicePlanStatus is the availability state of a product plan.
type ServicePlanStatus string

const (
	PlanActive            ServicePlanStatus = "ACTIVE"
	PlanDeactivated       ServicePlanStatus = "DEACTIVATED"
	PlanSuspended         ServicePlanStatus = "SUSPENDED"
	PlanPendingActivation ServicePlanStatus = "PENDING_ACTIVATION"
)

// ServicePlanType groups plans by tier.
type ServicePlanType string

const (
	PlanTypeDefault ServicePlanType = "DEFAULT"
	PlanTypePremium ServicePlanType = "PREMIUM"
	PlanTypeBasic   ServicePlanType = "BASIC"
	PlanTypeCustom  ServicePlanType = "CUSTOM"
)

// ServiceProduct is a catalog entry users can order plans of.
type ServiceProduct struct {
	ServiceProductID string               `json:"serviceProductID"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	Category         string               `json:"category"`
	Status           ServiceProductStatus `json:"status"`
	AuditFields
}

// IsActive reports whether the product can be ordered.
func (p ServiceProduct) IsActive() bool { return p.Status == ProductActive }

// ServicePlan is a purchasable option of a ServiceProduct, referenced by id.
type ServicePlan struct {
	ServicePlanID    string            `json:"servicePlanID"`
	ServiceProductID string            `json:"serviceProductID"`
	PlanName         string            `json:"planName"`
	Description      string            `json:"description"`
	Amount           decimal.Decimal   `json:"amount"`
	Currency         CurrencyCode      `json:"currency"`
	Status           ServicePlanStatus `json:"status"`
	PlanType         ServicePlanType   `json:"planType"`
	DisplayOrder     int               `json:"displayOrder"`
	IsFeatured       bool              `json:"isFeatured"`
	AuditFields
}

// IsActive reports whether the plan can be ordered.
func (p ServicePlan) IsActive() bool { return p.Status == PlanActive }

// BelongsTo reports whether the plan is part of productID.
func (p ServicePlan) BelongsTo(productID string) bool { return p.ServiceProductID == productID }

// DefaultRateStaleAfter is how long a stamped conversion rate may be trusted.
const DefaultRateStaleAfter = 24 * time.Hour

// ServiceProductPrice is the catalog price of a plan and its derived payable amount.
type ServiceProductPrice struct {
	PriceID         string          `json:"priceID"`
	ServicePlanID   string          `json:"servicePlanID"`
	DefaultPrice    decimal.Decimal `json:"defaultPrice"`
	DefaultCurrency CurrencyCode    `json:"defaultCurrency"`
	AmountToPay     decimal.Decimal `json:"amountToPay"`
	AmountCurrency  CurrencyCode    `json:"amountCurrency"`
	ConversionRate  decimal.Decimal `json:"conversionRate"`
	RateTimestamp   time.Time       `json:"rateTimestamp"`
	RateSource      string          `json:"rateSource"`
	AuditFields
}

// IsRateStale reports whether the stamped rate is older than maxAge at now.
func (p ServiceProductPrice) IsRateStale(now time.Time, maxAge time.Duration) bool {
	if p.RateTimestamp.IsZero() {
		return true
	}
	return now.Sub(p.RateTimestamp) > maxAge
}

// PriceQuote is an amount converted into a target currency with the rate used.
type PriceQuote struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      CurrencyCode    `json:"currency"`
	Rate          decimal.Decimal `json:"rate"`
	RateTimestamp time.Time       `json:"rateTimestamp"`
	RateSource    string          `json:"rateSource"`
}
