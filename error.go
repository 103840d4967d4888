package navigator

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT         = "conflict"
	EINTERNAL         = "internal"
	EINVALID          = "invalid"
	ENOTFOUND         = "not_found"
	EFETCH            = "fetch_failure"
	EMODELUNAVAILABLE = "model_unavailable"
	EMODELMISMATCH    = "model_mismatch"
	EEMPTY            = "empty_input"
	ENOTQUERYABLE     = "not_queryable"
	EGENERATION       = "generation_error"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract the code and message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Underlying error, if any.
	Err error
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("navigator error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with the given code whose message is formed
// from the format and the cause's text. The cause stays reachable via errors.Is.
func WrapError(code string, err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg += ": " + err.Error()
	}
	return &Error{Code: code, Message: msg, Err: err}
}
