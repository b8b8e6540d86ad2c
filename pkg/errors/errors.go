// Package errors defines coded errors for modloader.
//
// Codes are stable strings so tests and callers can branch on the kind of
// failure without matching messages. Details carry the path, label or mod an
// error is about.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of failure.
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Mods and manifests
	ErrManifestRead  ErrorCode = "MANIFEST_READ"
	ErrManifestParse ErrorCode = "MANIFEST_PARSE"
	ErrManifestWrite ErrorCode = "MANIFEST_WRITE"
	ErrModExists     ErrorCode = "MOD_EXISTS"
	ErrModNotFound   ErrorCode = "MOD_NOT_FOUND"

	// Rule files
	ErrRulesParse  ErrorCode = "RULES_PARSE"
	ErrRulesEncode ErrorCode = "RULES_ENCODE"

	ErrBackupCreate ErrorCode = "BACKUP_CREATE"

	// Game and mod files
	ErrFileRead     ErrorCode = "FILE_READ"
	ErrFileEncoding ErrorCode = "FILE_ENCODING"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// Error is a coded error with optional details and cause.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func build(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: cause,
	}
}

// New returns an error with code and message.
func New(code ErrorCode, message string) *Error {
	return build(code, message, nil)
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return build(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return build(code, message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return build(code, fmt.Sprintf(format, args...), err)
}

func (e *Error) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var other *Error
	return errors.As(target, &other) && other.Code == e.Code
}

// WithDetail records key=value on e and returns e.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func find(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsErrorCode reports whether err, or anything it wraps, has code.
func IsErrorCode(err error, code ErrorCode) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetErrorCode returns the code of err, or ErrUnknown.
func GetErrorCode(err error) ErrorCode {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details of err, or nil.
func GetErrorDetails(err error) map[string]interface{} {
	if e, ok := find(err); ok {
		return e.Details
	}
	return nil
}
