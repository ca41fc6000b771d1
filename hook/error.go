package hook

import (
	"fmt"

	"github.com/kbukum/errhook/errors"
)

// Kind tags the variant held by an Error.
type Kind int

const (
	// KindOpaque marks an Error holding an *Opaque.
	KindOpaque Kind = iota + 1
	// KindAggregate marks an Error holding an *errors.AppError.
	KindAggregate
)

func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// Error is the unified error returned by hooked functions on failure.
// Exactly one variant is populated and the held error is never modified.
// Error values are only built by the conversion that runs the hook.
type Error struct {
	kind      Kind
	opaque    *Opaque
	aggregate *errors.AppError
}

// Kind reports which variant is held.
func (e *Error) Kind() Kind { return e.kind }

// Opaque returns the held opaque error, if that is the variant.
func (e *Error) Opaque() (*Opaque, bool) {
	return e.opaque, e.kind == KindOpaque
}

// Aggregate returns the held aggregate error, if that is the variant.
func (e *Error) Aggregate() (*errors.AppError, bool) {
	return e.aggregate, e.kind == KindAggregate
}

// Unwrap returns the held error.
func (e *Error) Unwrap() error {
	if e.kind == KindAggregate {
		return e.aggregate
	}
	return e.opaque
}

// Error returns the held error's text unchanged.
func (e *Error) Error() string { return e.Unwrap().Error() }

// Format passes every verb and flag through to the held error.
func (e *Error) Format(s fmt.State, verb rune) {
	_, _ = fmt.Fprintf(s, fmt.FormatString(s, verb), e.Unwrap())
}

// KindOf reports the variant an error of shape E is held in.
func KindOf[E Shape](err E) Kind {
	if _, ok := any(err).(*Opaque); ok {
		return KindOpaque
	}
	return KindAggregate
}
