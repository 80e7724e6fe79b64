// Package errors provides sentinel errors and error presentation helpers for
// the cloud-assets CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a configuration or input validation failure.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a file, chart, or secret was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentialShape indicates a service credential document that
	// cannot be flattened (empty array, ambiguous array, key collision).
	ErrInvalidCredentialShape = errors.New("invalid credential shape")

	// ErrInvalidQuantityFormat indicates a memory quantity that is not <int><K|M|G>.
	ErrInvalidQuantityFormat = errors.New("invalid quantity format")

	// ErrMissingQuantity indicates both quantities handed to the comparator were absent.
	ErrMissingQuantity = errors.New("missing quantity")

	// ErrArtifactNotFound indicates a generated deployment artifact does not exist.
	// Callers treat it as a no-op.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrMappingFileWrite indicates the mappings file could not be written.
	ErrMappingFileWrite = errors.New("mapping file write failed")

	// ErrLocalDevFileWrite indicates the local-dev config file could not be written.
	ErrLocalDevFileWrite = errors.New("local-dev file write failed")
)

// Exit codes.
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitValidationError = 2
	ExitNotFound        = 5
)

// DetailError captures structured error information for terminal output.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path (optional).
	Location string

	// Field is the offending key (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}
	for k, v := range e.Context {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// ServiceError reports a failure scoped to one bound service.
type ServiceError struct {
	ServiceID string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %q: %v", e.ServiceID, e.Err)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ForService wraps err with the id of the service it belongs to.
// A nil err yields nil.
func ForService(serviceID string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{ServiceID: serviceID, Err: err}
}

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
	// Printed is set when the error has already been shown to the user.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the exit code for err.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidCredentialShape),
		errors.Is(err, ErrInvalidQuantityFormat),
		errors.Is(err, ErrMissingQuantity):
		return ExitValidationError
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	default:
		return ExitGeneralError
	}
}

// Wrap wraps a sentinel error with a message.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
