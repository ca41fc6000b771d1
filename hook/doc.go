// Package hook fires a callback exactly once when an error escapes a
// function, without changing the function's signature and without touching
// the error that reaches the caller.
//
// A function body runs inside Run (or Go/Await for bodies scheduled on
// their own goroutine). The body returns one of the two supported error
// shapes, *Opaque or *errors.AppError. On failure the error is paired with
// the hook, and converting that pairing into *Error is the single point the
// hook executes. The returned *Error formats exactly like the error it holds.
//
// # Usage
//
//	func Divide(a, b int) (int, error) {
//	    return hook.Run(logHook, func() (int, *errors.AppError) {
//	        if b == 0 {
//	            return 0, errors.New("division by zero")
//	        }
//	        return a / b, nil
//	    })
//	}
//
// Bodies whose native error type is neither shape adapt with Box:
//
//	return hook.Run(h, func() ([]byte, *hook.Opaque) {
//	    b, err := os.ReadFile(path)
//	    return b, hook.Box(err)
//	})
//
// Hooks must not panic. A panicking hook is not recovered and propagates
// to the caller of the wrapped function.
package hook
