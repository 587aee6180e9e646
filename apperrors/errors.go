package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error carrying the HTTP status it maps to and a
// message that is safe to show to API callers.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// InvalidInput reports a malformed id or a payload that failed validation.
func InvalidInput(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound reports an id that does not resolve to a stored record.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Internal wraps an unexpected failure. Only message is shown to callers.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// From returns err as an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(MsgInternal, err)
}

func IsNotFound(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}

func IsInvalidInput(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest
}

const MsgInternal = "Internal server error"
