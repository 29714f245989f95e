// Package logger provides structured logging functionality for the application.
//
// It configures a log/slog JSON handler with the configured level and carries
// request-scoped loggers (tagged with a trace ID) through context.Context.
package logger
