// Package validation wires go-playground/validator struct-tag validation
// for control-plane request bodies, adapted from the validator.New().Struct
// pattern used for config validation elsewhere in the ecosystem.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("httpurl", isHTTPURL)
}

// isHTTPURL backs the "httpurl" tag: a syntactically valid URL whose scheme
// is http or https, per spec.md section 3's Target.url requirement.
func isHTTPURL(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// FieldError is one entry of a request body validation failure, matching
// the "validation-error-array" shape spec.md section 6 allows for the
// detail field of a 422 response.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Struct validates req against its validate struct tags. It returns nil when
// req is valid and a non-empty slice of FieldError otherwise.
func Struct(req interface{}) []FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors []FieldError
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fieldErrors = append(fieldErrors, FieldError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Message: formatMessage(fe),
			})
		}
		return fieldErrors
	}

	return []FieldError{{Field: "", Tag: "", Message: err.Error()}}
}

func formatMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "httpurl":
		return fmt.Sprintf("%s must start with http:// or https://", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", fe.Field(), strings.ToLower(fe.Tag()))
	}
}
