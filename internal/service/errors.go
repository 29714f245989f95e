package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/fintrack-api/internal/store"
)

// Common service errors. The API layer maps them to HTTP status codes.
var (
	// ErrInvalidInput wraps a domain validation failure.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrServiceUnavailable indicates a backing store could not be read or
	// written because of a timeout or lost connection. No retry has been made.
	// API layer should map this to HTTP 503 Service Unavailable.
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)

// ServiceError records which service operation failed.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with the service and operation that produced it.
// Store outages are additionally tagged with ErrServiceUnavailable.
func NewServiceError(service, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrUnavailable) && !errors.Is(err, ErrServiceUnavailable) {
		err = fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	return &ServiceError{Service: service, Op: op, Err: err}
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
