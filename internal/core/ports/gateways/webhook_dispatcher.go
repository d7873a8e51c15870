package gateways

import "context"

// WebhookDispatcher hands raw webhook bodies to background processing.
type WebhookDispatcher interface {
	// Dispatch queues rawBody; it returns an error only when the body could not be queued.
	Dispatch(ctx context.Context, rawBody []byte) error
}
