// Package validation validates configuration structs.
//
// Struct tag validation uses go-playground/validator and reports fields by
// their config key:
//
//	type HooksConfig struct {
//	    Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
//	}
//	if err := validation.Struct(cfg); err != nil { ... }
//
// Cross-field rules are collected programmatically:
//
//	v := validation.New()
//	v.Custom(cfg.Endpoint != "" || !cfg.Tracing, "endpoint", "is required when tracing is enabled")
//	err := v.Validate()
//
// Both return an INVALID_INPUT *errors.AppError whose "fields" detail lists
// every failing field.
package validation
