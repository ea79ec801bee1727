package validation

import (
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with the custom tags used by the request types registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// notblank rejects values made only of whitespace; the reservation
	// lookup trims its inputs, so "  " would otherwise pass required.
	_ = v.RegisterValidation("notblank", notBlank)

	return v
}

func notBlank(fl validatorv10.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
