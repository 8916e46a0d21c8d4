package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrConfiguration ErrorType = iota
	ErrUpstream
	ErrNotFound
	ErrTransport
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrConfiguration:
		return "Configuration"
	case ErrUpstream:
		return "Upstream"
	case ErrNotFound:
		return "NotFound"
	case ErrTransport:
		return "Transport"
	default:
		return "Unknown"
	}
}

// BeauthyError represents an error raised while talking to the portal,
// the icon repository or the text-generation backend.
type BeauthyError struct {
	Type        ErrorType
	Application string
	// StatusCode is set for Upstream errors.
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *BeauthyError) Error() string {
	if e.Application != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Application, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *BeauthyError) Unwrap() error {
	return e.Err
}

// NewError builds a BeauthyError of the given type.
func NewError(t ErrorType, format string, args ...any) *BeauthyError {
	return &BeauthyError{Type: t, Err: fmt.Errorf(format, args...)}
}

// UpstreamError reports a non-success HTTP status.
func UpstreamError(status int, format string, args ...any) *BeauthyError {
	return &BeauthyError{
		Type:       ErrUpstream,
		StatusCode: status,
		Err:        fmt.Errorf(format, args...),
	}
}

// ForApplication tags err with the application slug. Errors that are not
// a *BeauthyError are wrapped as Transport errors.
func ForApplication(slug string, err error) error {
	if err == nil {
		return nil
	}
	var be *BeauthyError
	if !errors.As(err, &be) {
		return &BeauthyError{Type: ErrTransport, Application: slug, Err: err}
	}

	inner := err
	if direct, ok := err.(*BeauthyError); ok {
		inner = direct.Err
	}
	return &BeauthyError{
		Type:        be.Type,
		Application: slug,
		StatusCode:  be.StatusCode,
		Err:         inner,
	}
}

// IsType reports whether err wraps a BeauthyError of type t.
func IsType(err error, t ErrorType) bool {
	var be *BeauthyError
	if errors.As(err, &be) {
		return be.Type == t
	}
	return false
}
