// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"budgettracker/internal/models"
	"budgettracker/internal/recurrence"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the custom validations to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("recurrence_frequency", validateFrequency)
	_ = v.RegisterValidation("payment_method", validatePaymentMethod)
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateFrequency(fl validator.FieldLevel) bool {
	return recurrence.Frequency(fl.Field().String()).Valid()
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch models.PaymentMethod(fl.Field().String()) {
	case models.PaymentMethodCash, models.PaymentMethodCard, models.PaymentMethodDigital,
		models.PaymentMethodBankTransfer, models.PaymentMethodOther:
		return true
	}
	return false
}
