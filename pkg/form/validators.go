package form

import (
	"strings"

	"github.com/datedmemo/datedmemo/pkg/moment"
)

// FailureKind classifies why a field value was rejected.
type FailureKind string

const (
	// EmptyField means a required value is blank.
	EmptyField FailureKind = "EmptyField"
	// InvalidFormat means a non-blank value does not have the expected shape.
	InvalidFormat FailureKind = "InvalidFormat"
	// CustomFailure is used by validators built with Custom.
	CustomFailure FailureKind = "Custom"
)

// Validator is an interface for form field validation.
type Validator interface {
	// Validate checks if the value is valid.
	// Returns nil if valid, or a ValidationError if invalid.
	Validate(value string) error
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(value string) error

func (f ValidatorFunc) Validate(value string) error {
	return f(value)
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// NotEmpty validates that the value is not blank.
func NotEmpty(msg string) Validator {
	if msg == "" {
		msg = "This field is required"
	}
	return ValidatorFunc(func(value string) error {
		if isBlank(value) {
			return ValidationError{Kind: EmptyField, Message: msg}
		}
		return nil
	})
}

// Date validates that a non-blank value parses under layout.
// Blank values pass; pair it with NotEmpty to require a date.
func Date(layout *moment.Layout, msg string) Validator {
	if msg == "" {
		msg = "Invalid date"
	}
	return ValidatorFunc(func(value string) error {
		if isBlank(value) {
			return nil
		}
		if !layout.Valid(value) {
			return ValidationError{Kind: InvalidFormat, Message: msg}
		}
		return nil
	})
}

// Custom creates a validator from fn. A plain error returned by fn becomes
// a CustomFailure carrying the error text.
func Custom(fn func(value string) error) Validator {
	return ValidatorFunc(func(value string) error {
		err := fn(value)
		if err == nil {
			return nil
		}
		if ve, ok := err.(ValidationError); ok {
			return ve
		}
		return ValidationError{Kind: CustomFailure, Message: err.Error()}
	})
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
