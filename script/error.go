package script

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Predefined errors (sentinel values).
var (
	ErrParse            = NewError("parse error")
	ErrTargetNotFound   = NewError("setup call not found")
	ErrAmbiguousTarget  = NewError("multiple setup calls")
	ErrArgumentNotFound = NewError("version keyword argument not found")
	ErrNotStatic        = NewError("version is not a static string")
	ErrInvalidBinding   = NewError("invalid binding name")
	ErrReadInput        = NewError("failed to read script")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Errors derived from a sentinel with Wrap or With still match it under
// [errors.Is].
type Error struct {
	msg   string
	kind  *Error      // sentinel this error derives from
	err   error       // wrapped error (for errors.Unwrap)
	attrs []slog.Attr // attributes for structured logging
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
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

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e derives from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.kind != nil && t == e.kind
}

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		var lv slog.LogValuer
		if errors.As(e.err, &lv) {
			attrs = append(attrs, slog.Any("cause", lv))
		} else {
			attrs = append(attrs, slog.String("cause", e.err.Error()))
		}
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		kind:  e.kind,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		kind:  e.kind,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError reports source text that cannot be tokenized or structured.
// It matches [ErrParse] under [errors.Is].
type ParseError struct {
	Filename string
	Source   string
	Pos      Position
	Reason   string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error")

	if e.Filename != "" {
		buf.WriteString(" in ")
		buf.WriteString(e.Filename)
	}

	buf.WriteString(" at line ")
	buf.WriteString(strconv.Itoa(e.Pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Pos.Column))
	buf.WriteString(": ")
	buf.WriteString(e.Reason)

	if snippet := e.Snippet(); snippet != "" {
		buf.WriteString("\n")
		buf.WriteString(snippet)
	}

	return buf.String()
}

// Unwrap returns [ErrParse].
func (e *ParseError) Unwrap() error { return ErrParse }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrParse.msg),
		slog.String("file", e.Filename),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
		slog.String("reason", e.Reason),
	)
}

// Snippet renders the offending line with its line number and a caret under
// the error column. It returns "" if the position is outside the source.
func (e *ParseError) Snippet() string {
	lines := splitLines(e.Source)
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}

	line := strings.TrimRight(lines[e.Pos.Line-1], "\r")
	num := strconv.Itoa(e.Pos.Line)

	var src strings.Builder

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteRune('\n')

	// 2 leading spaces + " | "
	pad := len(num) + 5

	if col := e.Pos.Column - 1; col > 0 {
		pad += min(col, utf8.RuneCountInString(line))
	}

	src.WriteString(strings.Repeat(" ", pad))
	src.WriteString("^")

	return src.String()
}

// splitLines splits s on any line break the tokenizer recognizes.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	return strings.Split(s, "\n")
}
