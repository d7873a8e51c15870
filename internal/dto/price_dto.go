package dto

import (
	"time"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertPriceRequest sets the catalog price of a plan. AmountCurrency defaults to the
// settlement currency.
type UpsertPriceRequest struct {
	ServicePlanID   string          `json:"servicePlanID" binding:"required"`
	DefaultPrice    decimal.Decimal `json:"defaultPrice" binding:"required"`
	DefaultCurrency string          `json:"defaultCurrency" binding:"required,currency"`
	AmountCurrency  string          `json:"amountCurrency,omitempty" binding:"omitempty,currency"`
	RateSource      string          `json:"rateSource,omitempty" binding:"max=100"`
}

// PriceResponse is a plan price with its derived payable amount.
type PriceResponse struct {
	PriceID         string          `json:"priceID"`
	ServicePlanID   string          `json:"servicePlanID"`
	DefaultPrice    decimal.Decimal `json:"defaultPrice"`
	DefaultCurrency string          `json:"defaultCurrency"`
	AmountToPay     decimal.Decimal `json:"amountToPay"`
	AmountCurrency  string          `json:"amountCurrency"`
	ConversionRate  decimal.Decimal `json:"conversionRate"`
	RateTimestamp   time.Time       `json:"rateTimestamp"`
	RateSource      string          `json:"rateSource"`
	IsRateStale     bool            `json:"isRateStale"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
}

// ToPriceResponse converts a domain.ServiceProductPrice; stale is computed by the caller.
func ToPriceResponse(p *domain.ServiceProductPrice, stale bool) PriceResponse {
	return PriceResponse{
		PriceID:         p.PriceID,
		ServicePlanID:   p.ServicePlanID,
		DefaultPrice:    p.DefaultPrice,
		DefaultCurrency: p.DefaultCurrency.String(),
		AmountToPay:     p.AmountToPay,
		AmountCurrency:  p.AmountCurrency.String(),
		ConversionRate:  p.ConversionRate,
		RateTimestamp:   p.RateTimestamp,
		RateSource:      p.RateSource,
		IsRateStale:     stale,
		LastUpdatedAt:   p.LastUpdatedAt,
	}
}
