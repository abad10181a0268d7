package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable, machine-readable classification of an engine error.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "ERR_VALIDATION"
	CodeNotFound          ErrorCode = "ERR_NOT_FOUND"
	CodeInsufficientStock ErrorCode = "ERR_INSUFFICIENT_STOCK"
	CodeInvalidState      ErrorCode = "ERR_INVALID_STATE"
	CodeForbidden         ErrorCode = "ERR_FORBIDDEN"
	CodeConflict          ErrorCode = "ERR_CONFLICT"
	CodeStorage           ErrorCode = "ERR_STORAGE"
)

// Error is the typed error returned by every engine operation. Business-rule
// violations carry one of the codes above; unexpected storage failures carry
// CodeStorage and wrap the driver error.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error {
	return newError(CodeValidation, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return newError(CodeNotFound, format, args...)
}

func InsufficientStockf(format string, args ...any) *Error {
	return newError(CodeInsufficientStock, format, args...)
}

func InvalidStatef(format string, args ...any) *Error {
	return newError(CodeInvalidState, format, args...)
}

func Forbiddenf(format string, args ...any) *Error {
	return newError(CodeForbidden, format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return newError(CodeConflict, format, args...)
}

// StorageError wraps an unexpected lower-layer failure with enough context to
// find the failed operation in the logs.
func StorageError(op string, err error) *Error {
	return &Error{Code: CodeStorage, Message: op, cause: err}
}

// CodeOf extracts the error code from err, or CodeStorage for untyped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStorage
}

func IsNotFound(err error) bool          { return CodeOf(err) == CodeNotFound }
func IsValidation(err error) bool        { return CodeOf(err) == CodeValidation }
func IsInsufficientStock(err error) bool { return CodeOf(err) == CodeInsufficientStock }
func IsInvalidState(err error) bool      { return CodeOf(err) == CodeInvalidState }
func IsForbidden(err error) bool         { return CodeOf(err) == CodeForbidden }
func IsConflict(err error) bool          { return CodeOf(err) == CodeConflict }
