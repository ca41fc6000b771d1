package hook

import "github.com/kbukum/errhook/errors"

// Shape is the closed set of error shapes a hooked body may return. The
// constraint rejects every other error type at compile time.
type Shape interface {
	*Opaque | *errors.AppError
	error
}

// Hook is the callback run when an error escapes a hooked body. It receives
// the original error and its return value is nothing: hooks act by effect.
type Hook[E Shape] func(err E)

// pairing carries a failed body's error together with its hook, which has
// not run yet. It is consumed by exactly one convert call.
type pairing[E Shape] struct {
	err  E
	hook Hook[E]
}

// attach pairs err with h without invoking h. A nil err passes v through
// and yields no pairing.
func attach[T any, E Shape](v T, err E, h Hook[E]) (T, *pairing[E]) {
	var none E
	if err == none {
		return v, nil
	}
	var zero T
	return zero, &pairing[E]{err: err, hook: h}
}

// convert runs the hook once with the original error, then moves the error
// into the matching variant of Error.
func (p *pairing[E]) convert() *Error {
	if h := p.hook; h != nil {
		p.hook = nil
		h(p.err)
	}
	switch err := any(p.err).(type) {
	case *Opaque:
		return &Error{kind: KindOpaque, opaque: err}
	case *errors.AppError:
		return &Error{kind: KindAggregate, aggregate: err}
	default:
		panic("hook: unsupported error shape")
	}
}
