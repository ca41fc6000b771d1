package main

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/errhook/config"
	"github.com/kbukum/errhook/errors"
	"github.com/kbukum/errhook/observability"
)

const meterName = "github.com/kbukum/errhook/cmd/errhook-example"

// setupTelemetry starts the tracer and meter providers the config enables.
// Without them instruments fall back to the global no-op providers. The
// returned function flushes and stops whatever was started.
func setupTelemetry(ctx context.Context, cfg *config.Config) (*observability.Metrics, func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return stderrors.Join(errs...)
	}

	obs := cfg.Observability
	if obs.Tracing {
		tp, err := observability.InitTracer(ctx, obs.TracerConfig(cfg.Base.Name, cfg.Base.Version, cfg.Base.Environment))
		if err != nil {
			return nil, shutdown, errors.Wrap(err, "init tracer").WithCode(errors.ErrCodeUnavailable)
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	if obs.Metrics {
		mc := obs.MeterConfig(cfg.Base.Name, cfg.Base.Version, cfg.Base.Environment)
		mp, err := observability.InitMeter(ctx, &mc)
		if err != nil {
			return nil, shutdown, errors.Wrap(err, "init meter").WithCode(errors.ErrCodeUnavailable)
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	metrics, err := observability.NewMetrics(observability.Meter(meterName))
	if err != nil {
		return nil, shutdown, errors.Wrap(err, "create instruments")
	}
	return metrics, shutdown, nil
}
