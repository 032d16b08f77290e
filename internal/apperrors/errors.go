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

// ErrConflict indicates a state conflict that will not resolve by retrying.
var ErrConflict = errors.New("conflict")

// ErrConcurrencyConflict indicates a lost update was detected; the operation is safe to retry.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

// ErrPersistence indicates the storage layer was unavailable or failed.
var ErrPersistence = errors.New("persistence error")

// ErrUnauthorized indicates missing or invalid caller credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish code, a message, the error kind (one of the
// sentinels above) and the underlying cause.
type AppError struct {
	Code    int
	Message string
	Kind    error
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewAppError wraps err with a message. The kind is derived from the code
// unless err already carries one of the known sentinels.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Kind: kindForCode(code, err), Err: err}
}

// NewPersistenceError wraps a storage failure.
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message, Kind: ErrPersistence, Err: err}
}

// NewConcurrencyError wraps a detected lost update.
func NewConcurrencyError(message string, err error) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message, Kind: ErrConcurrencyConflict, Err: err}
}

// NewNotFoundError returns an error matching ErrNotFound with a specific message.
func NewNotFoundError(message string) error {
	return &AppError{Code: http.StatusNotFound, Message: message, Kind: ErrNotFound}
}

func kindForCode(code int, err error) error {
	for _, known := range []error{ErrNotFound, ErrValidation, ErrDuplicate, ErrConcurrencyConflict, ErrConflict, ErrPersistence, ErrUnauthorized} {
		if err != nil && errors.Is(err, known) {
			return nil
		}
	}
	switch code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusServiceUnavailable:
		return ErrPersistence
	default:
		return ErrInternal
	}
}

// ValidationError describes a rejected input. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

// Is reports ErrValidation as the kind of this error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DuplicateEventError reports that a source event was already recorded.
// Existing holds the previously stored record.
type DuplicateEventError struct {
	SourceEventID string
	Existing      any
}

func (e *DuplicateEventError) Error() string {
	return fmt.Sprintf("source event %s already recorded", e.SourceEventID)
}

// Is reports ErrDuplicate as the kind of this error.
func (e *DuplicateEventError) Is(target error) bool {
	return target == ErrDuplicate
}

// IsRetryable reports whether the caller may retry the whole operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict) || errors.Is(err, ErrPersistence)
}

// HTTPStatus maps an error to the status code used by handlers.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConcurrencyConflict), errors.Is(err, ErrPersistence):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
