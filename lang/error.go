package lang

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/permute/lang/token"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package are derived from these with [Error.With],
// [Error.WithPosition], and [Error.Wrap]; test for them with [errors.Is].
var (
	ErrUndefinedBinding     = NewError("undefined binding")
	ErrArityMismatch        = NewError("tuple arity mismatch")
	ErrMalformedTupleTarget = NewError("tuple target requires a single parenthesized value")
	ErrDuplicateBinding     = NewError("binding already defined in this loop")
	ErrTooManyCombinations  = NewError("combination limit exceeded")
	ErrParse                = NewError("parse error")
	ErrReadInput            = NewError("failed to read input")
)

// Error represents an error with an optional source position and structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error          // Wrapped error (for errors.Unwrap)
	pos   token.Position // Offending source location, if known
	attrs []slog.Attr    // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message from whichever fields are set:
	//
	//   "<line>:<col>: <msg> <key>=<value>...: <err>"
	var sb strings.Builder

	if e.pos.IsValid() {
		sb.WriteString(e.pos.String())
	}

	if e.msg != "" {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.msg)
	}

	for _, a := range e.attrs {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(a.String())
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return e.msg == t.msg
}

// Position returns the source location the error refers to.
func (e *Error) Position() token.Position { return e.pos }

// Attr returns the value of the structured attribute named key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos.IsValid() {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
	}
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos token.Position) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   pos,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   e.pos,
		attrs: newAttrs,
	}
}
