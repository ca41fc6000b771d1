// Package config loads and validates service configuration.
//
// LoadConfig uses Viper to read config.yml, godotenv to load an optional
// .env file, and then applies ERRHOOK_* environment variables on top:
//
//	cfg, err := config.Load("errhook-example")
//
// ERRHOOK_LOGGING_LEVEL=debug overrides logging.level. Validation failures
// are reported as one INVALID_INPUT *errors.AppError listing every field.
package config
