package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceProduct is a row of service_products.
type ServiceProduct struct {
	ServiceProductID string `db:"service_product_id"`
	Title            string `db:"title"`
	Description      string `db:"description"`
	Category         string `db:"category"`
	Status           string `db:"status"`
	AuditFields
}

// ServicePlan is a row of service_product_plans.
type ServicePlan struct {
	ServicePlanID    string          `db:"service_plan_id"`
	ServiceProductID string          `db:"service_product_id"`
	PlanName         string          `db:"plan_name"`
	Description      string          `db:"description"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	Status           string          `db:"status"`
	PlanType         string          `db:"plan_type"`
	DisplayOrder     int             `db:"display_order"`
	IsFeatured       bool            `db:"is_featured"`
	AuditFields
}

// ServiceProductPrice is a row of service_product_prices.
type ServiceProductPrice struct {
	PriceID         string          `db:"price_id"`
	ServicePlanID   string          `db:"service_plan_id"`
	DefaultPrice    decimal.Decimal `db:"default_price"`
	DefaultCurrency string          `db:"default_currency"`
	AmountToPay     decimal.Decimal `db:"amount_to_pay"`
	AmountCurrency  string          `db:"amount_currency"`
	ConversionRate  decimal.Decimal `db:"conversion_rate"`
	RateTimestamp   time.Time       `db:"rate_timestamp"`
	RateSource      string          `db:"rate_source"`
	AuditFields
}
