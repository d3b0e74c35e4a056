// Package validation wraps go-playground/validator and reports rule failures
// as field errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate *validator.Validate

var digitsRX = regexp.MustCompile(`^[0-9]+$`)

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(jsonFieldName)
	_ = validate.RegisterValidation("digits", validateDigits)
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// validateDigits accepts a string made only of ASCII digits whose length is
// exactly the tag parameter.
func validateDigits(fl validator.FieldLevel) bool {
	want, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	s := fl.Field().String()
	return len(s) == want && digitsRX.MatchString(s)
}

// FieldError describes one failed rule on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the validation outcome of a whole input. A non-empty Errors is
// returned as an error by callers.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a failure for field unless one is already recorded for it.
func (e Errors) Add(field, message string) Errors {
	if e.Has(field) {
		return e
	}
	return append(e, FieldError{Field: field, Message: message})
}

// Has reports whether field already failed.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Struct runs the struct's validate tags. It returns nil when every rule passes.
// A non-struct argument is a programming error and panics.
func Struct(s any) Errors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		panic(fmt.Sprintf("validation: %v", err))
	}

	var out Errors
	for _, fe := range verrs {
		out = out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "number", "numeric":
		return fmt.Sprintf("%s must be a number", field)
	case "digits":
		return fmt.Sprintf("%s must be exactly %s digits", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
