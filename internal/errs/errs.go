package errs

import (
	"errors"
)

// Code is an application error code.
type Code string

const (
	InvalidArgument    Code = "invalid_argument"
	NotFound           Code = "not_found"
	FailedPrecondition Code = "failed_precondition"
	Unavailable        Code = "unavailable"
	Internal           Code = "internal"
)

// Coder is implemented by domain error types that carry their own code
// without being wrapped in *Error.
type Coder interface {
	ErrorCode() Code
}

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorCode implements Coder.
func (e *Error) ErrorCode() Code {
	if e == nil || e.Code == "" {
		return Internal
	}
	return e.Code
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the error code of the outermost coded error in the chain,
// defaulting to internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var coder Coder
	if errors.As(err, &coder) {
		if code := coder.ErrorCode(); code != "" {
			return code
		}
	}
	return Internal
}

// MessageOf returns a user-facing error message.
// Untyped errors collapse to "internal error"; domain errors implementing
// Coder report their own text.
func MessageOf(err error) string {
	if err == nil {
		return string(Internal)
	}
	var coded *Error
	if errors.As(err, &coded) && coded.Message != "" {
		return coded.Message
	}
	var coder Coder
	if errors.As(err, &coder) {
		if _, isCoded := coder.(*Error); isCoded {
			return "internal error"
		}
		if e, ok := coder.(error); ok {
			return e.Error()
		}
	}
	return "internal error"
}

// ExitCode maps an error code to a process exit status for CLI commands.
func ExitCode(code Code) int {
	switch code {
	case InvalidArgument:
		return 2
	case NotFound:
		return 3
	case FailedPrecondition:
		return 4
	case Unavailable:
		return 5
	default:
		return 1
	}
}
