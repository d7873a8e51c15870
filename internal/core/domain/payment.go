package domain

import "github.com/shopspring/decimal"

// Gateway webhook event kinds acted upon during reconciliation.
const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

// Gateway transaction states reported on verification.
const (
	GatewayStatusSuccess = "success"
	GatewayStatusFailed  = "failed"
)

// PaymentInitRequest is what the gateway needs to open a transaction.
type PaymentInitRequest struct {
	Email       string
	AmountMinor int64 // smallest currency unit, e.g. kobo
	Currency    CurrencyCode
	Reference   string
	CallbackURL string
	Channels    []string
	Metadata    map[string]any
}

// PaymentAuthorization is the handle the customer uses to pay.
type PaymentAuthorization struct {
	AuthorizationURL string `json:"authorizationURL"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
}

// PaymentInitialization is returned to the caller after a gateway transaction is opened.
type PaymentInitialization struct {
	PaymentAuthorization
	CartReference string          `json:"cartReference"`
	Amount        decimal.Decimal `json:"amount"`
	AmountMinor   int64           `json:"amountMinor"`
	Currency      CurrencyCode    `json:"currency"`
}

// GatewayVerification is the gateway's view of a transaction.
type GatewayVerification struct {
	Ok          bool   // API call accepted by the gateway
	Message     string
	Reference   string
	Status      string // success, failed, abandoned, ongoing ...
	AmountMinor int64
	Currency    string
	Channel     string
	PaidAt      string
}

// VerificationOutcome summarises the reconciliation result for the caller.
type VerificationOutcome string

const (
	VerificationSucceeded VerificationOutcome = "SUCCESS"
	VerificationFailed    VerificationOutcome = "FAILED"
	VerificationPending   VerificationOutcome = "PENDING"
)

// PaymentVerification is returned from a synchronous verify call.
type PaymentVerification struct {
	Reference     string              `json:"reference"`
	Outcome       VerificationOutcome `json:"outcome"`
	GatewayStatus string              `json:"gatewayStatus,omitempty"`
	CartReference string              `json:"cartReference,omitempty"`
	CartStatus    CartStatus          `json:"cartStatus,omitempty"`
	Message       string              `json:"message"`
}

// WebhookEvent is the parsed envelope of a gateway callback.
type WebhookEvent struct {
	Event     string
	Reference string
	Status    string
	Data      map[string]any
}
