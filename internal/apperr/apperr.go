// Package apperr defines the expected, recoverable errors returned by the
// timer, profile and rewards commands. The presentation layer inspects the
// code to disable affordances (a greyed-out buy button, a disabled create
// button) rather than treating these as faults.
package apperr

import "fmt"

// Code is a machine-readable error class.
type Code string

const (
	CodeValidation        Code = "validation"
	CodeNotFound          Code = "not_found"
	CodeInsufficientFunds Code = "insufficient_funds"
	CodeAlreadyOwned      Code = "already_owned"
	CodeLocked            Code = "locked_item"
	CodeInvalidState      Code = "invalid_state"
	// CodeDecode never leaves the codec; decode failures fall back to defaults.
	CodeDecode Code = "decode"
)

// Error is the domain error type.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is checks. Only the code is compared.
var (
	ErrValidation        = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInsufficientFunds = &Error{Code: CodeInsufficientFunds, Message: "insufficient points"}
	ErrAlreadyOwned      = &Error{Code: CodeAlreadyOwned, Message: "item already owned"}
	ErrLocked            = &Error{Code: CodeLocked, Message: "item is locked"}
	ErrInvalidState      = &Error{Code: CodeInvalidState, Message: "invalid timer state"}
	ErrDecode            = &Error{Code: CodeDecode, Message: "decode failed"}
)

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Validation(format string, args ...any) *Error {
	return New(CodeValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, format, args...)
}

func InvalidState(format string, args ...any) *Error {
	return New(CodeInvalidState, format, args...)
}

// CodeOf returns the code of err if it is (or wraps) an *Error, else "".
func CodeOf(err error) Code {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
