package types

import (
	"errors"
	"fmt"
)

// Stable error kinds exposed to API callers
const (
	KindInput             = "input"
	KindUnsupportedFormat = "unsupported_format"
	KindAuth              = "auth"
	KindNotFound          = "not_found"
	KindDependency        = "dependency"
	KindInternal          = "internal"
)

// InputError represents a malformed or empty request payload
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// UnsupportedFormatError indicates an uploaded document is not in the accepted format
type UnsupportedFormatError struct {
	Filename string
	Accepted string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q: only %s files are supported", e.Filename, e.Accepted)
}

// AuthError indicates a missing, invalid or expired credential
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unauthorized: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("unauthorized: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// NotFoundError indicates an unknown identifier, or one owned by another principal
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// DependencyError indicates an external capability was unreachable, unconfigured or returned garbage
type DependencyError struct {
	Dependency string
	Message    string
	Cause      error
}

func (e *DependencyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Dependency, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s failed: %s", e.Dependency, e.Message)
}

func (e *DependencyError) Unwrap() error {
	return e.Cause
}

// ErrorKind returns the stable kind of err, or KindInternal for anything outside the taxonomy
func ErrorKind(err error) string {
	var (
		inputErr  *InputError
		formatErr *UnsupportedFormatError
		authErr   *AuthError
		notFound  *NotFoundError
		depErr    *DependencyError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &inputErr):
		return KindInput
	case errors.As(err, &formatErr):
		return KindUnsupportedFormat
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &depErr):
		return KindDependency
	default:
		return KindInternal
	}
}
