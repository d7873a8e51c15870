package gateways

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
)

// PaymentGateway is the narrow client surface of the card/bank payment provider.
type PaymentGateway interface {
	// InitializeTransaction opens a transaction and returns the customer's payment handle.
	InitializeTransaction(ctx context.Context, req domain.PaymentInitRequest) (*domain.PaymentAuthorization, error)

	// VerifyTransaction asks the provider for the current state of reference.
	VerifyTransaction(ctx context.Context, reference string) (*domain.GatewayVerification, error)

	// IsSignatureValid checks a webhook signature over the raw, unparsed body.
	IsSignatureValid(rawBody []byte, signature string) bool

	// ParseWebhookEvent decodes a webhook body into its event envelope.
	ParseWebhookEvent(rawBody []byte) (*domain.WebhookEvent, error)
}
