package handlers

import (
	"fmt"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain tags used in request bindings.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	validators := map[string]validator.Func{
		"currency":     validateCurrency,
		"order_status": validateOrderStatus,
		"order_action": validateOrderAction,
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}

func validateCurrency(fl validator.FieldLevel) bool {
	_, ok := domain.ParseCurrencyCode(fl.Field().String())
	return ok
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	return domain.OrderStatus(fl.Field().String()).IsValid()
}

func validateOrderAction(fl validator.FieldLevel) bool {
	return domain.OrderAction(fl.Field().String()).IsValid()
}
