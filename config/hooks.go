package config

// HooksConfig controls what the ready-made hooks in package hooks emit.
type HooksConfig struct {
	// Level is the log level escaped errors are reported at.
	Level string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	// IncludeChain adds the context chain of aggregate errors to log records.
	IncludeChain bool `yaml:"include_chain" mapstructure:"include_chain"`
	// IncludeStack adds the captured stack trace of aggregate errors.
	IncludeStack bool `yaml:"include_stack" mapstructure:"include_stack"`
}

// ApplyDefaults fills in the report level.
func (c *HooksConfig) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "error"
	}
}
