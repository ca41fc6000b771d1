// Package errors provides the contextual aggregate error used across errhook.
//
// An AppError is one layer of a context chain. Layers are added with Wrap or
// Context, foreign errors are adopted with From, and the stack is captured
// once when the chain starts. Error() reports the outermost message only;
// formatting with %+v prints every layer followed by the stack. Codes carry
// HTTP status mapping and retryable detection.
package errors
