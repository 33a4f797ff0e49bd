package utils

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("notblank", ValidateNotBlankRule)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator, also registering the custom
// rules with gin's binding engine.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		RegisterCustomValidators(validate)
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterCustomValidators(v)
		}
	})
	return validate
}

func ValidateNotBlankRule(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
