package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// AppError is the contextual aggregate error. Each value is one layer of a
// context chain: a message (or an adopted foreign error) plus the cause it
// wraps. Classification (code, retryable, HTTP status) is inherited by outer
// layers so the outermost error always answers for the whole chain.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code,omitempty"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`

	msg     string
	cause   error
	adopted bool
	stack   pkgerrors.StackTrace
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// New creates a root AppError with the given message and captures a stack.
func New(message string) *AppError {
	return &AppError{
		msg:        message,
		HTTPStatus: HTTPStatusFor(""),
		stack:      callers(pkgerrors.New(message)),
	}
}

// Errorf creates a root AppError from a format string.
func Errorf(format string, args ...any) *AppError {
	return New(fmt.Sprintf(format, args...))
}

// From adopts any error as an AppError without adding a message of its own:
// Error() and the chain are those of err. An *AppError is returned as-is.
// From(nil) returns nil.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*AppError); ok {
		return ae
	}
	e := &AppError{
		cause:      err,
		adopted:    true,
		HTTPStatus: HTTPStatusFor(""),
	}
	e.inherit(err)
	return e
}

// Wrap adds a context layer on top of err. Wrap(nil, ...) returns nil, as
// does wrapping a nil *AppError held in a non-nil error.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*AppError); ok && ae == nil {
		return nil
	}
	e := &AppError{
		msg:        message,
		cause:      err,
		HTTPStatus: HTTPStatusFor(""),
	}
	e.inherit(err)
	return e
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) *AppError {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Context returns a new layer with message wrapping the receiver.
func (e *AppError) Context(message string) *AppError {
	return Wrap(e, message)
}

// inherit copies classification and stack from the innermost available source.
func (e *AppError) inherit(cause error) {
	var inner *AppError
	if stderrors.As(cause, &inner) {
		e.Code = inner.Code
		e.Retryable = inner.Retryable
		e.HTTPStatus = inner.HTTPStatus
	}
	var st stackTracer
	if stderrors.As(cause, &st) {
		e.stack = st.StackTrace()
		return
	}
	e.stack = callers(pkgerrors.WithStack(cause))
}

func callers(err error) pkgerrors.StackTrace {
	if st, ok := err.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

// Error returns the outermost message only. Use %+v for the full chain.
func (e *AppError) Error() string {
	if e.adopted {
		return e.cause.Error()
	}
	return e.msg
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.cause }

// StackTrace returns the stack captured when the chain was started.
func (e *AppError) StackTrace() pkgerrors.StackTrace { return e.stack }

// Chain returns the message of every layer, outermost first.
func (e *AppError) Chain() []string {
	var out []string
	var err error = e
	for err != nil {
		if ae, ok := err.(*AppError); ok {
			if !ae.adopted {
				out = append(out, ae.msg)
			}
			err = ae.cause
			continue
		}
		out = append(out, err.Error())
		err = stderrors.Unwrap(err)
	}
	return out
}

// Root returns the innermost error of the chain.
func (e *AppError) Root() error {
	var err error = e
	for {
		next := stderrors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// Format implements fmt.Formatter. %s and %v print the outermost message,
// %+v prints the chain joined by ": " followed by the stack trace.
func (e *AppError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = io.WriteString(s, strings.Join(e.Chain(), ": "))
			if e.stack != nil {
				e.stack.Format(s, verb)
			}
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = fmt.Fprintf(s, "%%!%c(*errors.AppError=%s)", verb, e.Error())
	}
}

// WithCode classifies the error and returns the receiver.
func (e *AppError) WithCode(code ErrorCode) *AppError {
	e.Code = code
	e.Retryable = IsRetryableCode(code)
	e.HTTPStatus = HTTPStatusFor(code)
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// --- Common Error Constructors ---

// NotFound creates an AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	e := New(resource + " not found").WithCode(ErrCodeNotFound).WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

// InvalidInput creates an AppError for invalid input on a field.
func InvalidInput(field, reason string) *AppError {
	e := Errorf("invalid input: %s", reason).WithCode(ErrCodeInvalidInput)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation creates an AppError for validation errors.
func Validation(message string) *AppError {
	return New(message).WithCode(ErrCodeInvalidInput)
}

// Conflict creates an AppError for a conflict with the current state of the resource.
func Conflict(reason string) *AppError {
	return New(reason).WithCode(ErrCodeConflict)
}

// Timeout creates an AppError for an operation that timed out.
func Timeout(operation string) *AppError {
	return Errorf("%s timed out", operation).WithCode(ErrCodeTimeout).WithDetail("operation", operation)
}

// Unavailable creates an AppError for a dependency that is temporarily unavailable.
func Unavailable(service string) *AppError {
	return Errorf("%s unavailable", service).WithCode(ErrCodeUnavailable).WithDetail("service", service)
}

// Internal wraps cause as an internal error.
func Internal(cause error) *AppError {
	if cause == nil {
		return New("internal error").WithCode(ErrCodeInternal)
	}
	return Wrap(cause, "internal error").WithCode(ErrCodeInternal)
}
