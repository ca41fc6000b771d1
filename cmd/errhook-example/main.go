// Command errhook-example runs a synchronous and an asynchronous hooked
// function against the configured logging and telemetry stack.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/errhook/config"
	"github.com/kbukum/errhook/errors"
	"github.com/kbukum/errhook/hook"
	"github.com/kbukum/errhook/hooks"
	"github.com/kbukum/errhook/logger"
	"github.com/kbukum/errhook/version"
)

const serviceName = "errhook-example"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := hook.Run(hooks.Log[*errors.AppError](nil, "config.Load"), func() (*config.Config, *errors.AppError) {
		c, err := config.Load(serviceName)
		return c, errors.From(err)
	})
	if err != nil {
		return 1
	}

	logger.Init(&cfg.Logging)
	log := logger.New(&cfg.Logging, cfg.Base.Name)
	log.Info("starting", logger.Fields(
		"version", version.Get().String(),
		"environment", cfg.Base.Environment,
	))

	metrics, shutdown, err := setupTelemetry(ctx, cfg)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn("telemetry shutdown", logger.ErrorFields("shutdown", err))
		}
	}()
	if err != nil {
		log.Error("telemetry unavailable", logger.ErrorFields("setup", err))
		return 1
	}

	opts := hooks.FromConfig(cfg.Hooks)

	calc := newCalculator(log, opts...)
	for _, in := range [][2]int{{10, 2}, {1, 0}} {
		q, err := calc.divide(in[0], in[1])
		report(log, fmt.Sprintf("divide(%d, %d)", in[0], in[1]), q, err)
	}

	st := newStore(log, metrics, cfg.Retry, opts...)
	for _, id := range []int{1, 2, 99} {
		name, err := st.Fetch(ctx, id)
		report(log, fmt.Sprintf("fetch(%d)", id), name, err)
	}
	return 0
}

// report logs the outcome the caller sees after the hook has already run.
func report(log *logger.Logger, call string, value any, err error) {
	if err != nil {
		var he *hook.Error
		kind := "unknown"
		if stderrors.As(err, &he) {
			kind = he.Kind().String()
		}
		log.Info(call+" failed", logger.Fields("kind", kind, logger.FieldError, err.Error()))
		return
	}
	log.Info(call+" succeeded", logger.Fields("value", value))
}
