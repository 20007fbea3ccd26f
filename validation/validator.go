package validation

import (
	"fmt"
	"strings"

	"github.com/petjeaf/petjeaf-go/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// Merge appends field errors collected elsewhere.
func (v *Validator) Merge(fields []FieldError) *Validator {
	v.errors = append(v.errors, fields...)
	return v
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Message joins the collected errors as "field: message; ...".
func (v *Validator) Message() string {
	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		if e.Field == "" {
			messages[i] = e.Message
			continue
		}
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(messages, "; ")
}

// Validate returns a VALIDATION error if there are validation errors, nil otherwise.
func (v *Validator) Validate() *errors.Error {
	return v.As(errors.Validation)
}

// As builds the error with ctor, e.g. errors.Configuration, carrying the
// field list in its details. Returns nil when nothing failed.
func (v *Validator) As(ctor func(string) *errors.Error) *errors.Error {
	if !v.HasErrors() {
		return nil
	}
	return ctor(v.Message()).WithDetail("fields", v.errors)
}

// Required checks if a string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// OneOf checks if a value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// Required validates a single required field and returns an error if empty.
func Required(field, value string) error {
	v := New().Required(field, value)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
