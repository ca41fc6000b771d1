package hooks

import (
	"github.com/rs/zerolog"

	"github.com/kbukum/errhook/config"
)

// Options controls the records written by Log and Observe.
type Options struct {
	Level        zerolog.Level
	IncludeChain bool
	IncludeStack bool
}

// Option is a functional option for Log and Observe.
type Option func(*Options)

// WithLevel sets the level escaped errors are logged at.
func WithLevel(level zerolog.Level) Option {
	return func(o *Options) { o.Level = level }
}

// WithChain toggles the context chain field.
func WithChain(on bool) Option {
	return func(o *Options) { o.IncludeChain = on }
}

// WithStack toggles the stack trace field.
func WithStack(on bool) Option {
	return func(o *Options) { o.IncludeStack = on }
}

// FromConfig converts the hooks section of the service config into options.
// An unparsable level falls back to error.
func FromConfig(cfg config.HooksConfig) []Option {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.ErrorLevel
	}
	return []Option{
		WithLevel(level),
		WithChain(cfg.IncludeChain),
		WithStack(cfg.IncludeStack),
	}
}

func newOptions(opts []Option) Options {
	o := Options{Level: zerolog.ErrorLevel, IncludeChain: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
