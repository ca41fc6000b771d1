// Package resilience retries hooked function bodies.
//
// Retry re-runs a body while its error is transient and hands back the
// final outcome in the body's own error shape, so it composes inside
// hook.Run and hook.RunAsync without multiplying hook invocations.
package resilience
