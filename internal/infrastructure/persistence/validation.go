package persistence

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
)

// NewValidator returns a validator reporting fields by their JSON names
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validatePayload checks every entity of a write before any SQL is issued
func validatePayload[T shared.Entity](v *validator.Validate, entityName string, data []T) error {
	for i, item := range data {
		if item.GetUUID() == uuid.Nil {
			return shared.NewValidationError(fmt.Sprintf("%s payload #%d has no uuid", entityName, i), nil)
		}
		if err := v.Struct(item); err != nil {
			return shared.NewValidationError(
				fmt.Sprintf("invalid %s payload %s: %s", entityName, item.GetUUID(), formatValidationErrors(err)),
				err,
			)
		}
	}
	return nil
}

// formatValidationErrors renders validator errors as "field: message" pairs
func formatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	details := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, e.Field()+": "+validationMessage(e))
	}
	return strings.Join(details, "; ")
}

// validationMessage returns a human-readable validation message
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "invalid email format"
	case "max":
		if e.Type().Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "len":
		return "must be exactly " + e.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "startswith":
		return "must start with " + e.Param()
	case "bcp47_language_tag":
		return "must be a BCP 47 language tag"
	default:
		return "invalid value"
	}
}
