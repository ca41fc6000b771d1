package main

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/kbukum/errhook/errors"
	"github.com/kbukum/errhook/hook"
	"github.com/kbukum/errhook/hooks"
	"github.com/kbukum/errhook/logger"
	"github.com/kbukum/errhook/observability"
	"github.com/kbukum/errhook/resilience"
)

// calculator fails with the aggregate shape; its hook is fixed at
// construction.
type calculator struct {
	divide func(a, b int) (int, error)
}

func newCalculator(log *logger.Logger, opts ...hooks.Option) *calculator {
	return &calculator{
		divide: hook.Wrap2(hooks.Log[*errors.AppError](log, "calculator.divide", opts...), divide),
	}
}

func divide(a, b int) (int, *errors.AppError) {
	if b == 0 {
		return 0, errors.InvalidInput("b", "division by zero").WithDetail("a", a)
	}
	return a / b, nil
}

// store fails with the opaque shape. Lookups run on their own goroutine
// and unavailable backends are retried before the hook sees the error.
type store struct {
	log     *logger.Logger
	metrics *observability.Metrics
	retry   resilience.RetryConfig
	opts    []hooks.Option

	mu    sync.Mutex
	rows  map[int]string
	flaky map[int]int
}

func newStore(log *logger.Logger, metrics *observability.Metrics, retry resilience.RetryConfig, opts ...hooks.Option) *store {
	return &store{
		log:     log,
		metrics: metrics,
		retry:   retry,
		opts:    opts,
		rows:    map[int]string{1: "alice", 2: "bob"},
		flaky:   map[int]int{2: 1},
	}
}

// Fetch looks up id and reports any escaping error on the span it opens.
func (s *store) Fetch(ctx context.Context, id int) (string, error) {
	ctx, span := observability.StartSpan(ctx, "store.fetch")
	defer span.End()

	start := time.Now()
	h := hooks.Observe[*hook.Opaque](ctx, s.log, s.metrics, "store.fetch", s.opts...)
	name, err := hook.RunAsync(ctx, h, func(ctx context.Context) (string, *hook.Opaque) {
		return resilience.Retry(ctx, s.retry, s.lookup(id))
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordOperation(ctx, "store.fetch", status, time.Since(start))
	}
	return name, err
}

func (s *store) lookup(id int) func(context.Context) (string, *hook.Opaque) {
	return func(ctx context.Context) (string, *hook.Opaque) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if n := s.flaky[id]; n > 0 {
			s.flaky[id] = n - 1
			return "", hook.Box(errors.Unavailable("user store"))
		}
		name, ok := s.rows[id]
		if !ok {
			return "", hook.Box(errors.NotFound("user", strconv.Itoa(id)))
		}
		return name, nil
	}
}
