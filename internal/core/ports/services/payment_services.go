package services

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/dto"
)

// PaymentSvc opens gateway transactions for checked-out carts.
type PaymentSvc interface {
	InitializePayment(ctx context.Context, actor domain.Actor, req dto.InitializePaymentRequest) (*domain.PaymentInitialization, error)

	// VerifyPayment reconciles a cart with the gateway's view of reference.
	VerifyPayment(ctx context.Context, actor domain.Actor, reference string) (*domain.PaymentVerification, error)
}

// PaymentWebhookSvc handles gateway callbacks.
type PaymentWebhookSvc interface {
	IsSignatureValid(rawBody []byte, signature string) bool

	// ProcessWebhookAsync hands the body to background processing and never fails the caller.
	ProcessWebhookAsync(ctx context.Context, rawBody []byte)

	// ProcessWebhook applies a webhook body synchronously.
	ProcessWebhook(ctx context.Context, rawBody []byte) error
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentSvc
	PaymentWebhookSvc
}
