package bitwuzla

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind is one of the five abstract error categories the solver surfaces.
// TypeError and UsageError are synchronous call-site errors; ParseError is
// returned (never panicked) from the parse front end; ResourceError is
// absorbed into an Unknown check-sat result rather than propagated; an
// InternalError is an invariant violation and is fatal.
type ErrorKind int

const (
	// TypeErrorKind marks mismatched sorts, wrong arity, or invalid indices
	// (e.g. EXTRACT upper < lower) during term construction.
	TypeErrorKind ErrorKind = iota
	// UsageErrorKind marks an API call whose precondition was violated.
	UsageErrorKind
	// ParseErrorKind marks an input-format violation from the text front end.
	ParseErrorKind
	// ResourceErrorKind marks a terminator trip or an internal resource
	// limit; callers see this surfaced as Unknown, not as an error value.
	ResourceErrorKind
	// InternalErrorKind marks an invariant violation. The default abort
	// callback panics; a caller may install its own via SetAbortCallback.
	InternalErrorKind
)

func (k ErrorKind) String() string {
	switch k {
	case TypeErrorKind:
		return "TypeError"
	case UsageErrorKind:
		return "UsageError"
	case ParseErrorKind:
		return "ParseError"
	case ResourceErrorKind:
		return "ResourceError"
	case InternalErrorKind:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type returned by every synchronous API call
// in this package. Use errors.As to recover it and inspect Kind.
type Error struct {
	Kind ErrorKind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

func newErr(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func wrapErr(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), err: errors.WithStack(err)}
}

// typeErrorf panics with a TypeError. Term and sort constructors have no
// error-return in their signature (mirroring the teacher's Mk* functions),
// so a bad sort/arity/index is reported by panicking with *Error; callers
// that cross an API boundary (SolvingContext methods, the CLI) recover it
// with Recover below and turn it back into a normal error value.
func typeErrorf(format string, args ...interface{}) {
	panic(newErr(TypeErrorKind, format, args...))
}

// usageErrorf panics with a UsageError; see typeErrorf.
func usageErrorf(format string, args ...interface{}) {
	panic(newErr(UsageErrorKind, format, args...))
}

// Recover turns a panic carrying *Error (from typeErrorf/usageErrorf) back
// into a normal error value; any other panic value, including the string
// panic an InternalError raises, is re-raised. Defer it at API-boundary
// entry points:
//
//	func (sc *SolvingContext) Assert(t Term) (err error) {
//		defer Recover(&err)
//		...
//	}
func Recover(errp *error) {
	if r := recover(); r != nil {
		if e, ok := r.(*Error); ok {
			*errp = e
			return
		}
		panic(r)
	}
}

// AbortCallback is invoked by the default InternalError handler before the
// process terminates. Replace it with SetAbortCallback to, e.g., flush logs.
type AbortCallback func(msg string)

var abortCallback AbortCallback = func(msg string) {
	panic("bitwuzla: internal error: " + msg)
}

// SetAbortCallback installs a caller-supplied handler for InternalError
// conditions. The handler is expected not to return; if it does, the
// process aborts anyway, per spec: an InternalError must never let
// execution silently proceed.
func SetAbortCallback(cb AbortCallback) {
	if cb == nil {
		return
	}
	abortCallback = cb
}

func internalErrorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	abortCallback(msg)
	panic("bitwuzla: internal error (abort callback returned): " + msg)
}
