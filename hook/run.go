package hook

// Run evaluates body and returns its value unchanged on success. When body
// fails, h runs once with the original error before Run returns a *Error
// holding that same error. Run panics if h is nil.
func Run[T any, E Shape](h Hook[E], body func() (T, E)) (T, error) {
	mustHook(h)
	v, err := body()
	out, p := attach(v, err, h)
	return complete(out, p)
}

// Do is Run for bodies without a success value.
func Do[E Shape](h Hook[E], body func() E) error {
	_, err := Run(h, func() (struct{}, E) {
		return struct{}{}, body()
	})
	return err
}

// Wrap rewrites fn into a function with the same arguments that returns a
// *Error on failure and fires h exactly once per failing call. It panics
// when h or fn is nil, so a malformed hook fails where it is declared.
func Wrap[A, T any, E Shape](h Hook[E], fn func(A) (T, E)) func(A) (T, error) {
	mustHook(h)
	mustBody(fn == nil)
	return func(a A) (T, error) {
		return Run(h, func() (T, E) { return fn(a) })
	}
}

// Wrap2 is Wrap for two-argument functions.
func Wrap2[A, B, T any, E Shape](h Hook[E], fn func(A, B) (T, E)) func(A, B) (T, error) {
	mustHook(h)
	mustBody(fn == nil)
	return func(a A, b B) (T, error) {
		return Run(h, func() (T, E) { return fn(a, b) })
	}
}

// complete applies the conversion to an attach result. Success yields an
// untyped nil error, never a typed nil *Error.
func complete[T any, E Shape](v T, p *pairing[E]) (T, error) {
	if p == nil {
		return v, nil
	}
	return v, p.convert()
}

func mustHook[E Shape](h Hook[E]) {
	if h == nil {
		panic("hook: nil hook")
	}
}

func mustBody(isNil bool) {
	if isNil {
		panic("hook: nil function")
	}
}
