package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a row of carts. Members are the orders whose cart_id points here.
type Cart struct {
	CartID           string          `db:"cart_id"`
	CartReference    string          `db:"cart_reference"`
	UserID           string          `db:"user_id"`
	Status           string          `db:"status"`
	ItemCount        int             `db:"item_count"`
	Subtotal         decimal.Decimal `db:"subtotal"`
	TotalServiceFee  decimal.Decimal `db:"total_service_fee"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Currency         string          `db:"currency"`
	PaymentReference *string         `db:"payment_reference"`
	AuthorizationURL *string         `db:"authorization_url"`
	AccessCode       *string         `db:"access_code"`
	CheckedOutAt     *time.Time      `db:"checked_out_at"`
	LastActivityAt   time.Time       `db:"last_activity_at"`
	AuditFields
}
