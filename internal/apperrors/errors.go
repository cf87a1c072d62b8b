package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is in a state that does not permit the
// requested transition (e.g. posting a journal that is not approved).
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates that the acting user is not allowed to perform the action
// (e.g. maker-checker self-approval).
var ErrForbidden = errors.New("action forbidden")

// ErrInternal indicates an unexpected failure inside the application or its
// persistence layer. Callers may retry the operation.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code together with a message and an
// optional wrapped cause. Repositories use it to surface persistence failures.
type AppError struct {
	Code    int
	Message string
	Err     error
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

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
