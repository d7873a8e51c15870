package dto

// InitializePaymentRequest opens a gateway transaction for a checked-out cart.
// Email defaults to the caller's token email.
type InitializePaymentRequest struct {
	CartReference string         `json:"cartReference" binding:"required"`
	Email         string         `json:"email,omitempty" binding:"omitempty,email"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}
