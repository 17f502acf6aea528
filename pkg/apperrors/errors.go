package apperrors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the failure mode of an engine operation.
type ErrorCode string

const (
	ErrProvisioning   ErrorCode = "provisioning_failed"
	ErrNotProvisioned ErrorCode = "not_provisioned"
	ErrAuthorization  ErrorCode = "forbidden"
	ErrValidation     ErrorCode = "validation_error"
	ErrRemoteWrite    ErrorCode = "remote_write_failed"
	ErrPartialApply   ErrorCode = "partial_apply"
	ErrNotFound       ErrorCode = "not_found"
)

// AppError carries an error code and optional field metadata beyond a
// regular error.
type AppError struct {
	err     error
	message string
	code    ErrorCode
	fields  map[string]string
}

// New creates a new AppError with supplied details.
func New(message string, code ErrorCode, err error) *AppError {
	return &AppError{
		err:     err,
		message: message,
		code:    code,
	}
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// Message returns a safe error message for callers.
func (e *AppError) Message() string {
	return e.message
}

// Code returns the application level error code.
func (e *AppError) Code() ErrorCode {
	return e.code
}

// WithFields attaches field-level metadata to the AppError.
func (e *AppError) WithFields(fields map[string]string) *AppError {
	copy := *e
	copy.fields = fields
	return &copy
}

// Fields returns any field-level metadata recorded on the AppError.
func (e *AppError) Fields() map[string]string {
	return e.fields
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.code == code
	}
	return false
}

// Wrap converts a standard error into an AppError if needed.
func Wrap(err error, message string, code ErrorCode) *AppError {
	if err == nil {
		return nil
	}
	if appErr := new(AppError); errors.As(err, &appErr) {
		return appErr
	}
	return New(message, code, err)
}
