// Package observability provides OpenTelemetry tracing and metrics for
// errors escaping hooked functions.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mc := observability.DefaultMeterConfig("my-service")
//	mp, err := observability.InitMeter(ctx, &mc)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("my-service"))
//	metrics.RecordError(ctx, "Divide", "aggregate", "INVALID_INPUT")
package observability
