package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"go-task-manager/pkg/apierror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and reports the first
// failure as a validation error.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apierror.Validation("Invalid request", "").Wrap(err)
	}

	fe := fieldErrs[0]
	return apierror.Validation(fieldMessage(fe), fe.Field())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Please provide all required fields"
	case "email":
		return "Please provide a valid email address"
	case "min":
		if strings.Contains(strings.ToLower(fe.Field()), "password") {
			return "Password must be at least " + fe.Param() + " characters long"
		}
		return fe.Field() + " must be at least " + fe.Param() + " characters long"
	case "max":
		if strings.Contains(strings.ToLower(fe.Field()), "password") {
			return "Password must be at most " + fe.Param() + " bytes"
		}
		return fe.Field() + " must be at most " + fe.Param() + " characters long"
	case "uuid":
		return "Invalid ID format"
	case "oneof":
		return "Invalid " + fe.Field() + ": must be one of " + fe.Param()
	default:
		return "Invalid " + fe.Field()
	}
}

// parseID rejects ids that are not UUIDs before they reach the store.
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", apierror.Validation("Invalid ID format", id)
	}
	return parsed.String(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
