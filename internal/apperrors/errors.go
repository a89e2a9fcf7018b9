package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnhandled Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindTooLarge
)

const (
	MsgTaskNotFound = "Task not found"
	MsgUserNotFound = "User not found"
)

// Error is a classified failure. Anything that is not an *Error is treated
// as unhandled by the responder.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func TaskNotFound() *Error {
	return NotFound(MsgTaskNotFound)
}

func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

func TooLarge(message string, err error) *Error {
	return &Error{Kind: KindTooLarge, Message: message, Err: err}
}

func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnhandled
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// StatusCode maps the taxonomy onto HTTP.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text written to the client. Unhandled errors never
// leak their cause.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindUnhandled {
		return appErr.Message
	}
	return http.StatusText(http.StatusInternalServerError)
}
