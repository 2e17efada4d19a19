// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"
	"strings"
)

// Service errors.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ResourceError ties ErrNotFound or ErrForbidden to a resource name
// so callers can build a specific message.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	name := e.Resource
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return name + " not found"
	case errors.Is(e.Err, ErrForbidden):
		return "Not authorized to access this " + e.Resource
	default:
		return e.Resource + ": " + e.Err.Error()
	}
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

func notFound(resource string) error {
	return &ResourceError{Resource: resource, Err: ErrNotFound}
}

func forbidden(resource string) error {
	return &ResourceError{Resource: resource, Err: ErrForbidden}
}
