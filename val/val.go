// Package val validates structs with go-playground/validator and reports
// failures as errx validation errors.
package val

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
)

var validate *validator.Validate //nolint: gochecknoglobals // validator caches struct metadata, one instance per process

func init() { //nolint: gochecknoinits // custom tags must exist before the first Struct call
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(getTagName)
	registerCustomValidations(validate)
}

// ValidateSchema validates schema according to its `validate` struct tags.
// The returned error carries one field message per failed field.
func ValidateSchema(schema any) error {
	err := validate.Struct(schema)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(errx.M)
		for _, fieldErr := range validationErrors {
			fields[fieldErr.Field()] = describe(fieldErr)
		}

		return errx.New(
			"Validation failed. See fields for details.",
			errx.WithCode(CodeValidationFailed),
			errx.WithType(errx.T_Validation),
			errx.WithFields(fields),
		)
	}

	return errx.New(
		fmt.Sprintf("Unknown validation error: %s", err.Error()),
		errx.WithCode(CodeValidationFailed),
		errx.WithType(errx.T_Validation),
	)
}

// Validator returns the shared validator with custom tags registered.
func Validator() *validator.Validate {
	return validate
}

// getTagName names a field after its json, yaml or query tag, in that order,
// falling back to the Go field name.
func getTagName(fld reflect.StructField) string {
	for _, tagName := range []string{"json", "yaml", "query"} {
		name := strings.SplitN(fld.Tag.Get(tagName), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

func describe(fieldErr validator.FieldError) string {
	param := fieldErr.Param()

	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(param, " ", ", "))
	case "min":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", param)
		}
		return fmt.Sprintf("Must be at least %s", param)
	case "max":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", param)
		}
		return fmt.Sprintf("Must be at most %s", param)
	case "gt":
		return fmt.Sprintf("Must be greater than %s", param)
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", param)
	case "url":
		return "Must be a valid URL"
	case "hostname_port":
		return "Must be a valid host:port"
	case tagFolder:
		return "Must be a folder path without leading, trailing or repeated slashes"
	}

	return fmt.Sprintf("Failed validation: %s", fieldErr.Tag())
}
