package config

import (
	"github.com/kbukum/errhook/errors"
	"github.com/kbukum/errhook/logger"
	"github.com/kbukum/errhook/observability"
	"github.com/kbukum/errhook/resilience"
	"github.com/kbukum/errhook/validation"
	"github.com/kbukum/errhook/version"
)

// Config is the configuration of a service built on errhook.
//
//	base:
//	  name: errhook-example
//	logging:
//	  level: debug
//	hooks:
//	  include_chain: true
type Config struct {
	Base          BaseConfig             `yaml:"base" mapstructure:"base"`
	Logging       logger.Config          `yaml:"logging" mapstructure:"logging"`
	Observability observability.Config   `yaml:"observability" mapstructure:"observability"`
	Hooks         HooksConfig            `yaml:"hooks" mapstructure:"hooks"`
	Retry         resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// ApplyDefaults fills every section. An empty version is taken from the
// build metadata.
func (c *Config) ApplyDefaults() {
	c.Base.ApplyDefaults()
	if c.Base.Version == "" {
		c.Base.Version = version.Get().Version
	}
	if c.Base.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Hooks.ApplyDefaults()
	c.Retry.ApplyDefaults()
}

// Validate checks struct tags and each section's own rules, reporting every
// failing field at once.
func (c *Config) Validate() *errors.AppError {
	v := validation.New()
	v.Merge("", validation.Struct(c))
	if err := c.Logging.Validate(); err != nil {
		v.AddError("logging", err.Error())
	}
	if err := c.Observability.Validate(); err != nil {
		v.AddError("observability", err.Error())
	}
	return v.Validate()
}

// Load reads, defaults and validates the configuration of serviceName.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Base.Name == "" {
		cfg.Base.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err.Context("invalid configuration")
	}
	return cfg, nil
}
