package hooks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/errhook/errors"
	"github.com/kbukum/errhook/hook"
	"github.com/kbukum/errhook/logger"
	"github.com/kbukum/errhook/observability"
)

const logMessage = "hooked function failed"

// Log returns a hook that writes one record to l for every error escaping
// function. A nil logger resolves to the global logger when the hook runs.
func Log[E hook.Shape](l *logger.Logger, function string, opts ...Option) hook.Hook[E] {
	o := newOptions(opts)
	return func(err E) {
		logEvent(l, function, uuid.NewString(), err, o)
	}
}

// Record returns a hook that counts every error escaping function on m and
// records it on the span carried by ctx. m may be nil.
func Record[E hook.Shape](ctx context.Context, m *observability.Metrics, function string) hook.Hook[E] {
	return func(err E) {
		recordEvent(ctx, m, function, uuid.NewString(), err)
	}
}

// Observe combines Log and Record. Both sinks see the same error id.
func Observe[E hook.Shape](ctx context.Context, l *logger.Logger, m *observability.Metrics, function string, opts ...Option) hook.Hook[E] {
	o := newOptions(opts)
	return func(err E) {
		id := uuid.NewString()
		recordEvent(ctx, m, function, id, err)
		lg := l
		if lg == nil {
			lg = logger.GetGlobalLogger()
		}
		logEvent(lg.WithContext(ctx), function, id, err, o)
	}
}

// All runs hs in order as one hook. Nil entries are skipped.
func All[E hook.Shape](hs ...hook.Hook[E]) hook.Hook[E] {
	return func(err E) {
		for _, h := range hs {
			if h != nil {
				h(err)
			}
		}
	}
}

func logEvent[E hook.Shape](l *logger.Logger, function, id string, err E, o Options) {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	l.Log(o.Level, logMessage, Fields(function, id, err, o))
}

func recordEvent[E hook.Shape](ctx context.Context, m *observability.Metrics, function, id string, err E) {
	kind := hook.KindOf(err).String()
	code := string(errors.CodeOf(err))
	if m != nil {
		m.RecordError(ctx, function, kind, code)
	}

	attrs := []attribute.KeyValue{
		attribute.String(observability.AttrFunction, function),
		attribute.String(observability.AttrErrorKind, kind),
		attribute.String(observability.AttrErrorID, id),
	}
	if code != "" {
		attrs = append(attrs, attribute.String(observability.AttrErrorCode, code))
	}
	observability.SetSpanError(ctx, err, attrs...)
}

// Fields builds the structured fields Log writes for err.
func Fields[E hook.Shape](function, id string, err E, o Options) map[string]interface{} {
	f := logger.Fields(
		logger.FieldFunction, function,
		logger.FieldErrorKind, hook.KindOf(err).String(),
		logger.FieldErrorID, id,
		logger.FieldError, err.Error(),
	)
	ae, ok := any(err).(*errors.AppError)
	if !ok {
		return f
	}
	if ae.Code != "" {
		f[logger.FieldErrorCode] = string(ae.Code)
	}
	f[logger.FieldRetryable] = ae.Retryable
	if o.IncludeChain {
		f[logger.FieldErrorChain] = ae.Chain()
	}
	if o.IncludeStack {
		f[logger.FieldStack] = fmt.Sprintf("%+v", ae.StackTrace())
	}
	return f
}
