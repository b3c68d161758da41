package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryStorage  Category = "storage"
	CategoryInput    Category = "input"
	CategoryBinder   Category = "binder"
	CategoryBackup   Category = "backup"
	CategoryProtocol Category = "protocol"
)

// AppError is a structured error with a registered code and an optional hint.
type AppError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type (config, storage, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *AppError) WithSuggestion(s string) *AppError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered detail text.
func (e *AppError) WithDetail(d string) *AppError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *AppError) Wrap(err error) *AppError {
	e.Wrapped = err
	return e
}

// New creates an AppError from a registered error code.
func New(code string) *AppError {
	template, ok := registry[code]
	if !ok {
		return &AppError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &AppError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new AppError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *AppError {
	return &AppError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an AppError.
// Errors that already are AppErrors are returned unchanged.
func FromError(err error, code string) *AppError {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*AppError); ok {
		return ae
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code string) bool {
	for err != nil {
		if ae, ok := err.(*AppError); ok && ae.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
