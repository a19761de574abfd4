package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the read path. Typed errors below match these via Is,
// so callers can branch with errors.Is without knowing the concrete type.
var (
	// ErrNotFound is returned when the backend or cache signaled the target
	// does not exist. Read operations normally translate this condition into
	// an empty result instead of surfacing it.
	ErrNotFound = errors.New("not found")

	// ErrBackend is returned for any non-success backend response that is
	// not a not-found.
	ErrBackend = errors.New("backend error")

	// ErrInvalidArgument is returned for null/empty required input. It is
	// raised before any I/O takes place.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedCapability is returned when an operation is invoked
	// against an entity type lacking a required capability flag.
	ErrUnsupportedCapability = errors.New("unsupported capability")
)

// BackendError carries the backend-provided message, the HTTP-equivalent
// status code, and the underlying cause when one exists. It is never
// produced for 404-equivalent responses; those become empty results.
type BackendError struct {
	Status  int
	Message string
	Cause   error
}

func (e *BackendError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

// Unwrap exposes the underlying cause so context cancellation and transport
// errors remain matchable through errors.Is after wrapping.
func (e *BackendError) Unwrap() error {
	return e.Cause
}

// InvalidArgumentError reports a structurally invalid input.
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// UnsupportedCapabilityError reports an operation that requires a capability
// the entity type does not declare.
type UnsupportedCapabilityError struct {
	EntityType string
	Capability string
	Operation  string
}

func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("%s requires capability %q which entity type %q does not support",
		e.Operation, e.Capability, e.EntityType)
}

func (e *UnsupportedCapabilityError) Is(target error) bool {
	return target == ErrUnsupportedCapability
}

// NewBackendError creates a BackendError from a backend response.
func NewBackendError(status int, message string, cause error) error {
	return &BackendError{Status: status, Message: message, Cause: cause}
}

// NewInvalidArgumentError creates an InvalidArgumentError for a field.
func NewInvalidArgumentError(field, message string) error {
	return &InvalidArgumentError{Field: field, Message: message}
}

// NewUnsupportedCapabilityError creates an UnsupportedCapabilityError.
func NewUnsupportedCapabilityError(entityType, capability, operation string) error {
	return &UnsupportedCapabilityError{EntityType: entityType, Capability: capability, Operation: operation}
}

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBackend reports whether err is a backend error.
func IsBackend(err error) bool {
	return errors.Is(err, ErrBackend)
}

// IsInvalidArgument reports whether err is an invalid-argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsUnsupportedCapability reports whether err is an unsupported-capability error.
func IsUnsupportedCapability(err error) bool {
	return errors.Is(err, ErrUnsupportedCapability)
}
