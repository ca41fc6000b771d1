// Package logger provides structured logging for errhook applications
// using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Hook sinks log through
// this package so every escaped error carries the same field names.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("billing")
//	log.Error("charge failed", logger.Fields("function", "Charge"))
package logger
