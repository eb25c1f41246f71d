package httpapi

import (
	"github.com/go-playground/validator/v10"
)

type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *requestValidator) Validate(i any) error {
	return v.v.Struct(i)
}
