package models

import (
	"github.com/shopspring/decimal"
)

// Order is a row of orders. Credential columns hold ciphertext only.
type Order struct {
	OrderID                   string          `db:"order_id"`
	OrderReference            string          `db:"order_reference"`
	UserID                    string          `db:"user_id"`
	UserName                  string          `db:"user_name"`
	Email                     string          `db:"email"`
	PhoneNumber               string          `db:"phone_number"`
	ServiceProductID          string          `db:"service_product_id"`
	ServiceProductName        string          `db:"service_product_name"`
	ServicePlanID             string          `db:"service_plan_id"`
	ServicePlanName           string          `db:"service_plan_name"`
	CredentialUsernameOrEmail string          `db:"credential_username_or_email"`
	CredentialPassword        string          `db:"credential_password"`
	DefaultAmount             decimal.Decimal `db:"default_amount"`
	DefaultCurrency           string          `db:"default_currency"`
	Amount                    decimal.Decimal `db:"amount"`
	AmountCurrency            string          `db:"amount_currency"`
	CurrencyConversionRate    decimal.Decimal `db:"currency_conversion_rate"`
	ServiceFee                decimal.Decimal `db:"service_fee"`
	TotalAmount               decimal.Decimal `db:"total_amount"`
	Status                    string          `db:"status"`
	Action                    string          `db:"action"`
	CartID                    *string         `db:"cart_id"` // Nullable
	Metadata                  map[string]any  `db:"metadata"`
	AdminNotes                string          `db:"admin_notes"`
	PaymentReference          *string         `db:"payment_reference"` // Nullable
	IsInCart                  bool            `db:"is_in_cart"`
	AuditFields
}
