// Package logger provides structured logging functionality for the application.
//
// It builds on log/slog with a JSON handler. Request-scoped loggers travel in
// the context, and records logged with a context that carries an active span
// get the trace and span IDs attached.
package logger
