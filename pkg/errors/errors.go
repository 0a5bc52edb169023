package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork  ErrorType = "network"
	ErrorTypeRedirect ErrorType = "redirect"
	ErrorTypeStatus   ErrorType = "status"
	ErrorTypeBody     ErrorType = "body"
	ErrorTypeWrite    ErrorType = "write"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// Error represents a fetch or storage failure with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	URL     string
	Err     error
}

func (e *Error) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s error (code %d): %s (url: %s)", e.Type, e.Code, e.Message, e.URL)
	}
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type.
// This lets callers match with errors.Is(err, &Error{Type: ErrorTypeRedirect}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// New creates a typed error
func New(errorType ErrorType, code int, url, message string) *Error {
	return &Error{Type: errorType, Code: code, URL: url, Message: message}
}

// Wrap creates a typed error around a cause
func Wrap(errorType ErrorType, url string, err error) *Error {
	return &Error{Type: errorType, URL: url, Message: err.Error(), Err: err}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown if err is not typed
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsRedirect reports whether err was caused by a redirect response
func IsRedirect(err error) bool {
	return TypeOf(err) == ErrorTypeRedirect
}

// StatusCode returns the HTTP status carried by err, or 0 for transport failures
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
