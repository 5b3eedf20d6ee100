package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports violations against the JSON field names the client
// actually sent, not the Go struct field names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return out
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = field + " is required"
		case "email":
			out[field] = field + " must be a valid email address"
		case "min":
			out[field] = field + " must be at least " + e.Param()
		case "max":
			out[field] = field + " must be at most " + e.Param()
		case "gte":
			out[field] = field + " must be greater than or equal to " + e.Param()
		case "lte":
			out[field] = field + " must be less than or equal to " + e.Param()
		case "oneof":
			out[field] = field + " must be one of: " + e.Param()
		case "uuid":
			out[field] = field + " must be a valid UUID"
		default:
			out[field] = field + " is invalid"
		}
	}

	return out
}
