package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller's role lacks the capability for the requested action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates the record changed since it was read (version mismatch).
var ErrConflict = errors.New("conflict")

// ErrInternal is returned when an unexpected failure should not be exposed to the caller.
var ErrInternal = errors.New("internal error")

// ErrTenantIsolation is returned when a record belongs to a tenant other than the caller's.
// It wraps ErrNotFound so callers can never tell it apart from a missing record.
var ErrTenantIsolation = fmt.Errorf("%w: tenant mismatch", ErrNotFound)

// ErrTenantUnresolved is returned when a non super-admin actor has no usable tenant.
var ErrTenantUnresolved = errors.New("tenant context could not be resolved")

// ErrInvalidTransition indicates the requested status change is not a legal edge.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrPrecondition indicates the record is not in a state that allows the operation.
var ErrPrecondition = errors.New("precondition failed")

// ErrNotificationDelivery is recorded when a notification could not be delivered.
// It is logged and never returned from a write path.
var ErrNotificationDelivery = errors.New("notification delivery failed")

// AppError carries an HTTP status code together with a message and the wrapped cause.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with a message.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// NewConflictError wraps ErrDuplicate with a message.
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrDuplicate)
}

// NewValidationFailedError wraps ErrValidation with a message.
func NewValidationFailedError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewInternalServerError wraps ErrInternal with a message.
func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, ErrInternal)
}

// NewPreconditionError wraps ErrPrecondition with an actionable message.
func NewPreconditionError(message string) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, message)
}

// NewInvalidTransitionError wraps ErrInvalidTransition describing the rejected edge.
func NewInvalidTransitionError(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
