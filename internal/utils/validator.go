// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("warranty_code", validateWarrantyCode)
	validate.RegisterValidation("phone", validatePhone)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateWarrantyCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()

	// Warranty codes are uppercase alphanumeric, 10-20 characters
	if len(code) < 10 || len(code) > 20 {
		return false
	}

	matched, _ := regexp.MatchString("^[A-Z0-9-]+$", code)
	return matched
}

func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()

	matched, _ := regexp.MatchString(`^\+?[0-9]{10,13}$`, phone)
	return matched
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "warranty_code":
		return "Warranty code must be 10-20 uppercase letters, digits, or dashes"
	case "phone":
		return "Phone number must be 10-13 digits"
	default:
		return e.Field() + " is invalid"
	}
}
