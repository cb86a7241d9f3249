// Package apperr defines the error kinds shared by every service in the
// backend. Handlers use them to pick a response status; services wrap them so
// the kind survives any amount of fmt.Errorf("%w") decoration.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated is returned when an operation needs a principal and none was resolved.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the caller lacks the admin role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition is returned when a state machine precondition does not hold,
	// e.g. deciding a claim that was already decided.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotFound is returned when a referenced claim, provider or message is absent.
	ErrNotFound = errors.New("not found")
	// ErrStorage marks a transient infrastructure failure.
	ErrStorage = errors.New("storage error")
)

// Kind codes returned by KindOf.
const (
	KindValidation      = "validation"
	KindUnauthenticated = "unauthenticated"
	KindForbidden       = "forbidden"
	KindConflict        = "conflict"
	KindNotFound        = "not_found"
	KindStorage         = "storage"
	KindInternal        = "internal"
)

// FieldError is a validation failure tied to one input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports FieldError as an ErrValidation.
func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

// Validation builds a FieldError.
func Validation(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// StorageFailure wraps an infrastructure error together with the operation that hit it.
type StorageFailure struct {
	Op  string
	Err error
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageFailure) Unwrap() error { return e.Err }

// Is reports StorageFailure as an ErrStorage.
func (e *StorageFailure) Is(target error) bool {
	return target == ErrStorage
}

// Storage wraps err as a StorageFailure. Errors that already carry a kind are
// returned unchanged so a NotFound coming out of a lookup is not downgraded.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindInternal {
		return err
	}
	return &StorageFailure{Op: op, Err: err}
}

// KindOf maps err to a stable code.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrInvalidTransition):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrStorage):
		return KindStorage
	default:
		return KindInternal
	}
}
