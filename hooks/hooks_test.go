package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/errhook/config"
	"github.com/kbukum/errhook/errors"
	"github.com/kbukum/errhook/hook"
	"github.com/kbukum/errhook/logger"
	"github.com/kbukum/errhook/observability"
)

func jsonLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "hooks-test", buf)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func divide(h hook.Hook[*errors.AppError], a, b int) (int, error) {
	return hook.Run(h, func() (int, *errors.AppError) {
		if b == 0 {
			return 0, errors.InvalidInput("b", "division by zero").Context("divide")
		}
		return a / b, nil
	})
}

func TestLog_Aggregate(t *testing.T) {
	var buf bytes.Buffer
	h := Log[*errors.AppError](jsonLogger(&buf), "Divide")

	if _, err := divide(h, 4, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("success must not log, got %q", buf.String())
	}

	if _, err := divide(h, 4, 0); err == nil {
		t.Fatal("expected error")
	}
	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(lines))
	}
	m := lines[0]
	if m["level"] != "error" || m["message"] != logMessage {
		t.Errorf("unexpected record header %v", m)
	}
	if m[logger.FieldFunction] != "Divide" {
		t.Errorf("expected function=Divide, got %v", m[logger.FieldFunction])
	}
	if m[logger.FieldErrorKind] != "aggregate" {
		t.Errorf("expected aggregate kind, got %v", m[logger.FieldErrorKind])
	}
	if m[logger.FieldErrorCode] != string(errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", m[logger.FieldErrorCode])
	}
	if m[logger.FieldError] != "divide" {
		t.Errorf("expected outermost message, got %v", m[logger.FieldError])
	}
	if _, err := uuid.Parse(m[logger.FieldErrorID].(string)); err != nil {
		t.Errorf("error id is not a uuid: %v", err)
	}
	chain, ok := m[logger.FieldErrorChain].([]interface{})
	if !ok || len(chain) != 2 || chain[1] != "invalid input: division by zero" {
		t.Errorf("unexpected chain %v", m[logger.FieldErrorChain])
	}
	if _, ok := m[logger.FieldStack]; ok {
		t.Error("stack must be off by default")
	}
}

func TestLog_Opaque(t *testing.T) {
	var buf bytes.Buffer
	_, err := hook.Run(Log[*hook.Opaque](jsonLogger(&buf), "Read"), func() (int, *hook.Opaque) {
		return 0, hook.Box(io.ErrUnexpectedEOF)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	m := decodeLines(t, &buf)[0]
	if m[logger.FieldErrorKind] != "opaque" {
		t.Errorf("expected opaque kind, got %v", m[logger.FieldErrorKind])
	}
	if m[logger.FieldError] != io.ErrUnexpectedEOF.Error() {
		t.Errorf("unexpected error field %v", m[logger.FieldError])
	}
	for _, k := range []string{logger.FieldErrorCode, logger.FieldErrorChain, logger.FieldRetryable} {
		if _, ok := m[k]; ok {
			t.Errorf("opaque record must not carry %s", k)
		}
	}
}

func TestLog_Options(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		wantLevel string
		wantChain bool
		wantStack bool
	}{
		{"defaults", nil, "error", true, false},
		{"warn without chain", []Option{WithLevel(zerolog.WarnLevel), WithChain(false)}, "warn", false, false},
		{"with stack", []Option{WithStack(true)}, "error", true, true},
		{"from config", FromConfig(config.HooksConfig{Level: "info", IncludeStack: true}), "info", false, true},
		{"bad config level", FromConfig(config.HooksConfig{Level: "loud"}), "error", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if _, err := divide(Log[*errors.AppError](jsonLogger(&buf), "Divide", tt.opts...), 1, 0); err == nil {
				t.Fatal("expected error")
			}
			m := decodeLines(t, &buf)[0]
			if m["level"] != tt.wantLevel {
				t.Errorf("expected level %s, got %v", tt.wantLevel, m["level"])
			}
			if _, ok := m[logger.FieldErrorChain]; ok != tt.wantChain {
				t.Errorf("chain present=%v, want %v", ok, tt.wantChain)
			}
			stack, ok := m[logger.FieldStack]
			if ok != tt.wantStack {
				t.Errorf("stack present=%v, want %v", ok, tt.wantStack)
			}
			if ok && !strings.Contains(stack.(string), "divide") {
				t.Errorf("stack should name the failing function, got %v", stack)
			}
		})
	}
}

func TestLog_NilLoggerUsesGlobal(t *testing.T) {
	var buf bytes.Buffer
	logger.SetGlobalLogger(jsonLogger(&buf))
	defer logger.SetGlobalLogger(nil)

	if _, err := divide(Log[*errors.AppError](nil, "Divide"), 1, 0); err == nil {
		t.Fatal("expected error")
	}
	if len(decodeLines(t, &buf)) != 1 {
		t.Errorf("expected one record on the global logger, got %q", buf.String())
	}
}

type telemetry struct {
	reader  *sdkmetric.ManualReader
	metrics *observability.Metrics
	spans   *tracetest.SpanRecorder
	tracer  *sdktrace.TracerProvider
}

func newTelemetry(t *testing.T) *telemetry {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := observability.NewMetrics(mp.Meter("hooks-test"))
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	sr := tracetest.NewSpanRecorder()
	return &telemetry{
		reader:  reader,
		metrics: m,
		spans:   sr,
		tracer:  sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)),
	}
}

func (tm *telemetry) errorCount(t *testing.T) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := tm.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != observability.MetricHookErrors {
				continue
			}
			sum, _ := md.Data.(metricdata.Sum[int64])
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestRecord(t *testing.T) {
	tm := newTelemetry(t)
	ctx, span := tm.tracer.Tracer("test").Start(context.Background(), "divide")

	h := Record[*errors.AppError](ctx, tm.metrics, "Divide")
	if _, err := divide(h, 6, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := divide(h, 6, 0); err == nil {
		t.Fatal("expected error")
	}
	span.End()

	if got := tm.errorCount(t); got != 1 {
		t.Errorf("expected 1 recorded error, got %d", got)
	}
	ended := tm.spans.Ended()
	if len(ended) != 1 || ended[0].Status().Code != codes.Error {
		t.Fatalf("expected one failed span, got %+v", ended)
	}
	events := ended[0].Events()
	if len(events) != 1 {
		t.Fatalf("expected one exception event, got %d", len(events))
	}
	attrs := attribute.NewSet(events[0].Attributes...)
	if v, ok := attrs.Value(attribute.Key(observability.AttrErrorCode)); !ok || v.AsString() != string(errors.ErrCodeInvalidInput) {
		t.Errorf("expected error.code on the event, got %v", v)
	}
	if v, ok := attrs.Value(attribute.Key(observability.AttrFunction)); !ok || v.AsString() != "Divide" {
		t.Errorf("expected code.function on the event, got %v", v)
	}
}

func TestRecord_NilMetrics(t *testing.T) {
	h := Record[*hook.Opaque](context.Background(), nil, "Read")
	if err := hook.Do(h, func() *hook.Opaque { return hook.Box(io.EOF) }); err == nil {
		t.Fatal("expected error")
	}
}

func TestObserve_SharesErrorID(t *testing.T) {
	tm := newTelemetry(t)
	var buf bytes.Buffer
	ctx, span := tm.tracer.Tracer("test").Start(context.Background(), "fetch")

	f := hook.Go(ctx, func(context.Context) (string, *hook.Opaque) {
		return "", hook.Box(io.ErrClosedPipe)
	})
	_, err := hook.Await(ctx, Observe[*hook.Opaque](ctx, jsonLogger(&buf), tm.metrics, "Fetch"), f)
	span.End()
	if err == nil {
		t.Fatal("expected error")
	}

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %d", len(lines))
	}
	if tm.errorCount(t) != 1 {
		t.Error("expected one recorded error")
	}
	events := tm.spans.Ended()[0].Events()
	set := attribute.NewSet(events[0].Attributes...)
	v, _ := set.Value(attribute.Key(observability.AttrErrorID))
	if v.AsString() == "" || v.AsString() != lines[0][logger.FieldErrorID] {
		t.Errorf("log id %v and span id %q differ", lines[0][logger.FieldErrorID], v.AsString())
	}
}

func TestAll(t *testing.T) {
	var order []string
	h := All[*hook.Opaque](
		func(*hook.Opaque) { order = append(order, "first") },
		nil,
		func(*hook.Opaque) { order = append(order, "second") },
	)
	if err := hook.Do(h, func() *hook.Opaque { return hook.Box(io.EOF) }); err == nil {
		t.Fatal("expected error")
	}
	if strings.Join(order, ",") != "first,second" {
		t.Errorf("unexpected order %v", order)
	}
}
