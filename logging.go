package dynabuild

import (
	"context"
	"fmt"
	"log"
	"log/slog"
)

// StructuredLogger provides structured logging support for the library.
// It is compatible with Go 1.21's slog package and similar structured
// logging libraries.
//
// Use WithLogger to configure:
//
//	b, _ := dynabuild.New(shape,
//	    dynabuild.WithLogger(dynabuild.NewSlogAdapter(slog.Default())),
//	    dynabuild.WithDebug(true),
//	)
type StructuredLogger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}

// slogAdapter adapts a *slog.Logger to the StructuredLogger interface.
type slogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps a *slog.Logger to implement StructuredLogger.
func NewSlogAdapter(logger *slog.Logger) StructuredLogger {
	return &slogAdapter{logger: logger}
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	a.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
}

func (a *slogAdapter) Info(msg string, args ...any) {
	a.logger.Log(context.Background(), slog.LevelInfo, msg, args...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	a.logger.Log(context.Background(), slog.LevelWarn, msg, args...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	a.logger.Log(context.Background(), slog.LevelError, msg, args...)
}

var _ StructuredLogger = (*slogAdapter)(nil)

// stdLoggerAdapter adapts a standard library *log.Logger.
type stdLoggerAdapter struct {
	logger *log.Logger
}

// WrapStdLogger wraps a standard library *log.Logger to implement
// StructuredLogger. All messages carry a level tag with formatted key-value
// pairs appended.
func WrapStdLogger(l *log.Logger) StructuredLogger {
	return &stdLoggerAdapter{logger: l}
}

func (a *stdLoggerAdapter) Debug(msg string, args ...any) {
	a.logger.Print("[DEBUG] " + msg + formatArgs(args))
}

func (a *stdLoggerAdapter) Info(msg string, args ...any) {
	a.logger.Print("[INFO] " + msg + formatArgs(args))
}

func (a *stdLoggerAdapter) Warn(msg string, args ...any) {
	a.logger.Print("[WARN] " + msg + formatArgs(args))
}

func (a *stdLoggerAdapter) Error(msg string, args ...any) {
	a.logger.Print("[ERROR] " + msg + formatArgs(args))
}

var _ StructuredLogger = (*stdLoggerAdapter)(nil)

// formatArgs formats structured logging arguments as a string.
func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	result := " |"
	for i := 0; i < len(args); i += 2 {
		key := args[i]
		var value any
		if i+1 < len(args) {
			value = args[i+1]
		}
		result += fmt.Sprintf(" %v=%v", key, value)
	}
	return result
}

// NopLogger is a logger that discards all log messages. It is the default
// when no logger is configured.
type NopLogger struct{}

// Debug implements StructuredLogger.Debug.
func (NopLogger) Debug(msg string, args ...any) {}

// Info implements StructuredLogger.Info.
func (NopLogger) Info(msg string, args ...any) {}

// Warn implements StructuredLogger.Warn.
func (NopLogger) Warn(msg string, args ...any) {}

// Error implements StructuredLogger.Error.
func (NopLogger) Error(msg string, args ...any) {}

var _ StructuredLogger = NopLogger{}
