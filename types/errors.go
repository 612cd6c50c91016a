package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies compile errors. All of them are final for the compilation that raised them.
type ErrorKind int

//go:generate go tool enumer -type=ErrorKind -output=gen_errorkind_enumer.go errors.go

const (
	// Grammar errors.
	UnexpectedToken ErrorKind = iota
	MissingArrow
	UnbalancedGroup
	InvalidSize
	AnonymousSizeNotAllowed
	EllipsisInGroupNotAllowed
	AmbiguousDerivedSize

	// Arity errors.
	ArityMismatch

	// Naming errors.
	DuplicateAxisName
	ReferenceToReducedAxis
	UnresolvedAxisNeedsSize
	AxisNotInOutput
	EllipsisSideMismatch

	// Shape errors, only detected once the input shapes are known.
	RankMismatch
	SizeMismatch
	ShapeNotDivisible
	DTypeMismatch

	// Consistency errors.
	PlanInconsistent

	// BackendFailure is returned when an execution backend fails to run a step of a plan.
	BackendFailure
)

// Error is a compile (or execution) error of a pattern.
type Error struct {
	Kind ErrorKind

	// Pattern being compiled, if known.
	Pattern string

	// Pos is the byte offset in Pattern where the error was detected, or -1 if it doesn't apply.
	Pos int

	Msg string

	// Cause is the underlying error, set for BackendFailure.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Pos >= 0 && e.Pattern != "" {
		return fmt.Sprintf("%s (at offset %d of %q)", msg, e.Pos, e.Pattern)
	}
	if e.Pattern != "" {
		return fmt.Sprintf("%s (pattern %q)", msg, e.Pattern)
	}
	return msg
}

// Unwrap returns the Cause, so errors.Is and errors.As can inspect it.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Errorf creates a new *Error with a stack trace attached.
// Use pos=-1 if the error is not tied to a position in the pattern.
func Errorf(kind ErrorKind, pattern string, pos int, format string, args ...any) error {
	return errors.WithStack(&Error{
		Kind:    kind,
		Pattern: pattern,
		Pos:     pos,
		Msg:     fmt.Sprintf(format, args...),
	})
}

// Wrapf creates a new *Error of the given kind caused by err, with a stack trace attached.
func Wrapf(err error, kind ErrorKind, pattern string, format string, args ...any) error {
	return errors.WithStack(&Error{
		Kind:    kind,
		Pattern: pattern,
		Pos:     -1,
		Msg:     fmt.Sprintf(format, args...),
		Cause:   err,
	})
}

// IsKind returns whether err (or any error it wraps) is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the kind of the *Error wrapped in err, and false if err doesn't wrap one.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Kind, true
}
