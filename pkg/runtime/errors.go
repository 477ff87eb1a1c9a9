package runtime

import (
	"fmt"

	"github.com/pkg/errors"

	"minipy/interpreter-go/pkg/ast"
)

// ErrorKind classifies the fatal runtime failures of a program.
type ErrorKind uint

const (
	UnknownError ErrorKind = iota
	TypeError
	DivisionByZero
	NameError
	ArityError
	IndexError
	RecursionError
)

func (k ErrorKind) String() string {
	switch k {
	case TypeError:
		return "TypeError"
	case DivisionByZero:
		return "DivisionByZero"
	case NameError:
		return "NameError"
	case ArityError:
		return "ArityError"
	case IndexError:
		return "IndexError"
	case RecursionError:
		return "RecursionError"
	default:
		return "Error"
	}
}

// Error is a classified runtime failure. It optionally remembers where in
// the source it was raised.
type Error struct {
	kind    ErrorKind
	cause   error
	span    ast.Span
	hasSpan bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.cause.Error())
}

func (e *Error) Kind() ErrorKind { return e.kind }

// Message is the error text without the kind prefix.
func (e *Error) Message() string { return e.cause.Error() }

func (e *Error) Cause() error  { return e.cause }
func (e *Error) Unwrap() error { return e.cause }

// Span returns the source range of the statement that failed, if known.
func (e *Error) Span() (ast.Span, bool) {
	return e.span, e.hasSpan
}

func (k ErrorKind) New(msg string) error {
	return &Error{kind: k, cause: errors.New(msg)}
}

func (k ErrorKind) Errorf(msg string, args ...interface{}) error {
	return &Error{kind: k, cause: errors.Errorf(msg, args...)}
}

// KindOf reports the classification of err, looking through wrappers.
func KindOf(err error) ErrorKind {
	var re *Error
	if errors.As(err, &re) {
		return re.kind
	}
	return UnknownError
}

// WithSpan attaches span to a runtime error that has none yet, so the
// innermost failing statement wins.
func WithSpan(err error, span ast.Span) error {
	if err == nil || span.IsZero() {
		return err
	}
	var re *Error
	if errors.As(err, &re) && !re.hasSpan {
		re.span = span
		re.hasSpan = true
	}
	return err
}
