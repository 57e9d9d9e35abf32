package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// currencyCodeValidator accepts 3-letter ASCII alphabetic codes in either
// case; normalization to uppercase happens in the fx kernel.
func currencyCodeValidator(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// RegisterValidators attaches custom binding validators to gin's validator
// engine. Must run once before routes are registered.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("currencycode", currencyCodeValidator)
}
