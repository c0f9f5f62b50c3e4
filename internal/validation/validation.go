// Package validation wraps go-playground/validator with the reporting
// domain's rules and turns failures into validation errors.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/types"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Validator returns the shared validator with custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterValidation("role", validateRole)
		v.RegisterValidation("eventdate", validateEventDate)
		instance = v
	})
	return instance
}

// Struct validates s and reports the first failing fields as a validation error.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return types.Validation("invalid input: %v", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return types.Validation("%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	case "min", "max":
		return fmt.Sprintf("%s is out of range", field)
	case "role":
		return fmt.Sprintf("%s is not a known role", field)
	case "eventdate":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field)
	case "email":
		return fmt.Sprintf("%s must be an email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s does not match", field)
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

func validateRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

func validateEventDate(fl validator.FieldLevel) bool {
	_, ok := models.ParseDate(fl.Field().String())
	return ok
}
