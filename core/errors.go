package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports bad input, optionally detailed per field.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

type notFound struct {
	message string
}

// NewNotFoundError returns an error the API layer reports as a 404.
func NewNotFoundError(msg string) error {
	return &notFound{message: msg}
}

func (nf notFound) Error() string {
	return nf.message
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*notFound)
	return ok
}

// ServiceError is returned when an external collaborator (model, broker, mailer) failed.
// Err is safe to show to users, Internal is the underlying failure.
type ServiceError struct {
	Err      error
	Internal error
}

func NewServiceError(err, internal error) error {
	return &ServiceError{Err: err, Internal: internal}
}

func (err ServiceError) Error() string {
	if err.Internal == nil {
		return err.Err.Error()
	}
	return err.Err.Error() + ": " + err.Internal.Error()
}

func (err ServiceError) Unwrap() error { return err.Err }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
