package hook

import "context"

// Future is the pending outcome of a body scheduled with Go.
type Future[T any, E Shape] struct {
	done chan struct{}

	val       T
	err       E
	returned  bool
	panicked  bool
	recovered any
}

// Go runs body on its own goroutine. The outcome is not hooked until it is
// awaited with Await.
func Go[T any, E Shape](ctx context.Context, body func(context.Context) (T, E)) *Future[T, E] {
	mustBody(body == nil)
	f := &Future[T, E]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.panicked, f.recovered = true, r
			}
		}()
		f.val, f.err = body(ctx)
		f.returned = true
	}()
	return f
}

// Done is closed once the body has returned, panicked or exited.
func (f *Future[T, E]) Done() <-chan struct{} { return f.done }

// Await waits for f, then attaches h and converts on the calling goroutine,
// so h runs once per failing Await and always after the body has finished.
// If ctx ends first Await returns ctx.Err() and h does not run. A panic
// raised by the body is raised again here, and a body that exited its
// goroutine without returning (runtime.Goexit) panics here too.
func Await[T any, E Shape](ctx context.Context, h Hook[E], f *Future[T, E]) (T, error) {
	mustHook(h)
	select {
	case <-f.done:
	default:
		select {
		case <-f.done:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
	if f.panicked {
		panic(f.recovered)
	}
	if !f.returned {
		panic("hook: body exited without returning")
	}
	out, p := attach(f.val, f.err, h)
	return complete(out, p)
}

// RunAsync schedules body with Go and awaits it with h.
func RunAsync[T any, E Shape](ctx context.Context, h Hook[E], body func(context.Context) (T, E)) (T, error) {
	mustHook(h)
	return Await(ctx, h, Go(ctx, body))
}

// WrapAsync is Wrap for functions whose body is scheduled with Go.
func WrapAsync[A, T any, E Shape](h Hook[E], fn func(context.Context, A) (T, E)) func(context.Context, A) (T, error) {
	mustHook(h)
	mustBody(fn == nil)
	return func(ctx context.Context, a A) (T, error) {
		return RunAsync(ctx, h, func(ctx context.Context) (T, E) { return fn(ctx, a) })
	}
}
