// Package validation holds the shared struct validator and its field-error formatting.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/distribution/reference"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)
	mustRegister("port", isPort)
	mustRegister("imageref", isImageReference)
	mustRegister("ext", isExtension)
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// fieldName reports fields by their form, mapstructure or json name so messages match what callers sent.
func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"form", "mapstructure", "json"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Errors is the full list of field failures for one struct.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 1 {
		return fmt.Sprintf("validation error: %s", e[0].Message)
	}

	var b strings.Builder
	b.WriteString("validation errors:\n")
	for _, fe := range e {
		fmt.Fprintf(&b, "  - %s\n", fe.Message)
	}
	return b.String()
}

// Struct validates s and converts validator failures into Errors.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validation failed: %w", err)
	}

	result := make(Errors, 0, len(validationErrors))
	for _, e := range validationErrors {
		result = append(result, FieldError{
			Field:   e.Field(),
			Type:    e.Tag(),
			Message: formatFieldError(e),
		})
	}
	return result
}

// formatFieldError formats a single validation error into a user-friendly message.
func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "port":
		return fmt.Sprintf("field '%s' must be an integer between 1 and 65535", field)
	case "imageref":
		return fmt.Sprintf("field '%s' must be a valid image name", field)
	case "ext":
		return fmt.Sprintf("field '%s' entries must be file extensions starting with '.'", field)
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s", field, e.Param())
	case "hostname_port":
		return fmt.Sprintf("field '%s' must be a host:port address", field)
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, tag)
	}
}

// ParsePort parses a TCP port number in the range 1-65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

func isPort(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		_, err := ParsePort(field.String())
		return err == nil
	case reflect.Int, reflect.Int32, reflect.Int64:
		v := field.Int()
		return v >= 1 && v <= 65535
	default:
		return false
	}
}

func isImageReference(fl validator.FieldLevel) bool {
	_, err := reference.ParseNormalizedNamed(fl.Field().String())
	return err == nil
}

func isExtension(fl validator.FieldLevel) bool {
	ext := fl.Field().String()
	return len(ext) > 1 && strings.HasPrefix(ext, ".") && !strings.ContainsAny(ext, `/\`)
}
