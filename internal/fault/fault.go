// Package fault defines the closed set of error kinds the solver reports and
// a tagged error type that carries the failing subsystem alongside the
// underlying operating-system or parse error.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. None of these are retried.
type Kind int

const (
	OutOfMemory Kind = iota + 1
	BarrierInitFailed
	ThreadCreateFailed
	FileOpenFailed
	FileReadMalformed
	FileWriteFailed
	InvalidConfiguration
)

var kindNames = map[Kind]string{
	OutOfMemory:          "out of memory",
	BarrierInitFailed:    "barrier init failed",
	ThreadCreateFailed:   "thread create failed",
	FileOpenFailed:       "file open failed",
	FileReadMalformed:    "file read malformed",
	FileWriteFailed:      "file write failed",
	InvalidConfiguration: "invalid configuration",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error implements the error interface so a bare Kind can be used as an
// errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Error is a failure tagged with its kind and the subsystem that raised it.
type Error struct {
	Kind      Kind
	Subsystem string
	Err       error
}

// New builds a tagged error. err may be nil when there is no underlying cause.
func New(kind Kind, subsystem string, err error) *Error {
	return &Error{Kind: kind, Subsystem: subsystem, Err: err}
}

// Newf builds a tagged error from a formatted cause.
func Newf(kind Kind, subsystem, format string, args ...any) *Error {
	return New(kind, subsystem, fmt.Errorf(format, args...))
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Subsystem, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Subsystem, e.Kind, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a bare Kind target, so errors.Is(err, fault.FileOpenFailed) works
// through any amount of wrapping.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the kind of the first tagged error in err's chain, or 0.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
