// Package log provides a structured logging interface for treeviz.
//
// The interface is slog-compatible so the backend can be switched without touching
// call sites. Two backends ship with the package: a zerolog logger (the default
// used by the CLI) and a slog JSON logger that emits the Cloud Logging field names
// and lifts cockroachdb/errors stack traces into a dedicated attribute.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ModelNameKey, "DecisionTree",
//	    log.ComponentKey, "builder",
//	)
//	logger.Debug("node split",
//	    log.NodeIDKey, 1,
//	    log.FeatureIndexKey, 0,
//	    log.ThresholdKey, 5.5,
//	)
package log

import (
	"context"
	"fmt"
	"strings"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Every method takes a message followed by alternating key/value pairs. Error
// additionally accepts an error value as the first field, which backends attach
// under ErrAttrKey together with its stack trace when available.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	//
	//	logger.Error("tree build failed",
	//	    err,
	//	    log.SamplesKey, 0,
	//	)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive fields for disabled levels.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name ("debug", "info", "warn", "error") into a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// LoggerProvider defines an interface for creating and configuring loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
