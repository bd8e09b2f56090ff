package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("date", validateDate)
	v.RegisterValidation("clock", validateClock)
	v.RegisterValidation("recurrence", validateRecurrence)
	v.RegisterValidation("confirm_status", validateConfirmStatus)
	v.RegisterValidation("notblank", validateNotBlank)

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// validateDate accepts YYYY-MM-DD
func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(fl.Field().String()))
	return err == nil
}

// validateClock accepts HH:MM or HH:MM:SS
func validateClock(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if _, err := time.Parse("15:04", s); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", s)
	return err == nil
}

func validateRecurrence(fl validator.FieldLevel) bool {
	switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
	case "", "none", "continuous":
		return true
	}
	return false
}

func validateConfirmStatus(fl validator.FieldLevel) bool {
	switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
	case "completed", "realizado", "no_show", "faltou":
		return true
	}
	return false
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required", "notblank":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "gt":
				errors[field] = field + " must be greater than " + e.Param()
			case "hexcolor":
				errors[field] = field + " must be a hex color like #1E88E5"
			case "date":
				errors[field] = field + " must use the YYYY-MM-DD format"
			case "clock":
				errors[field] = field + " must use the HH:MM format"
			case "recurrence":
				errors[field] = field + " must be 'none' or 'continuous'"
			case "confirm_status":
				errors[field] = field + " must be 'completed' or 'no_show'"
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
