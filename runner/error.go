package runner

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrInterpreterNotFound = NewError("python interpreter not found")
	ErrStart               = NewError("failed to start interpreter")
	ErrBootstrap           = NewError("failed to render bootstrap")
	ErrEnvFile             = NewError("failed to read env file")
)

// Error represents an error with optional structured logging attributes.
// Errors derived from a sentinel match it under [errors.Is].
type Error struct {
	msg   string
	kind  *Error
	err   error
	attrs []slog.Attr
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t == e.kind
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, kind: e.kind, err: err, attrs: e.attrs}
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{msg: e.msg, kind: e.kind, err: e.err, attrs: newAttrs}
}

// ExitError reports that the wrapped program ended unsuccessfully. Code is
// its exit status, or 128 plus the signal number if a signal ended it.
type ExitError struct {
	Code   int
	Signal string // name of the terminating signal, if any
}

func (e *ExitError) Error() string {
	if e.Signal != "" {
		return "terminated by " + e.Signal + " (exit status " + strconv.Itoa(e.Code) + ")"
	}

	return "exit status " + strconv.Itoa(e.Code)
}

func (e *ExitError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.Int("code", e.Code)}
	if e.Signal != "" {
		attrs = append(attrs, slog.String("signal", e.Signal))
	}

	return slog.GroupValue(attrs...)
}

// ExitCode returns the status the tool should exit with for err: 0 for nil,
// the child's status for an [ExitError], and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}

	return 1
}
