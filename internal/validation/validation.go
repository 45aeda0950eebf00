// Package validation wraps the validator/v10 library for service inputs.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator validates service input structs.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Validate validates a struct and returns a single readable error.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, friendlyMessage(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// friendlyMessage converts a field error into a human-readable message.
func friendlyMessage(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color like #FFCC00", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
