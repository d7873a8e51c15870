package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidOperation indicates the entities are valid but the requested change is not
// allowed in their current state.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrInvalidActionTransition is an ErrInvalidOperation raised by the admin order workflow.
var ErrInvalidActionTransition = fmt.Errorf("%w: invalid action transition", ErrInvalidOperation)

// ErrUnauthorized indicates an ownership or role mismatch.
var ErrUnauthorized = errors.New("not authorized to perform this action")

// ErrRateNotFound indicates no effective exchange rate exists for a currency pair.
var ErrRateNotFound = errors.New("exchange rate not found")

// ErrConflict indicates a concurrent modification was detected.
var ErrConflict = errors.New("resource was modified concurrently")

// ErrPayment is the parent of every payment gateway failure.
var ErrPayment = errors.New("payment error")

// ErrPaymentGateway indicates the gateway could not be reached or rejected the call.
var ErrPaymentGateway = fmt.Errorf("%w: gateway failure", ErrPayment)

// ErrPaymentState indicates the cart is not in a state that allows the payment step.
var ErrPaymentState = fmt.Errorf("%w: payment state conflict", ErrPayment)

// AppError carries an HTTP-ish code and a public message around an underlying error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError matching ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// NewValidationError returns an AppError matching ErrValidation.
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// StatusCode maps err onto an HTTP status code.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrRateNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict), errors.Is(err, ErrPaymentState):
		return http.StatusConflict
	case errors.Is(err, ErrPayment):
		return http.StatusBadGateway
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
