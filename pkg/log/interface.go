// Package log provides the structured logging interface used by bayesreg
// models.
//
// The Logger interface is slog-compatible so that any back-end can be plugged
// in. Two back-ends ship with the package: ZerologLogger (the default) and
// SlogLogger, which wraps a *slog.Logger whose handler extracts cockroachdb
// stack traces. TestLogger captures entries in memory for assertions.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("linear").With(
//	    log.ModelNameKey, "LM",
//	    log.BasisKey, "polynomial",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 27,
//	    log.NumBasisKey, 4,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with log/slog.
//
// Fields are passed as alternating key/value pairs. Error accepts an error
// value as its first field; back-ends record it under the "error" key.
type Logger interface {
	// Debug logs detailed diagnostic information, such as per-prediction
	// shapes.
	Debug(msg string, fields ...any)

	// Info logs operational information, such as the start and end of a fit.
	Info(msg string, fields ...any)

	// Warn logs conditions that do not stop the computation.
	Warn(msg string, fields ...any)

	// Error logs a failed operation.
	//
	// Example:
	//   logger.Error("Cholesky factorization failed",
	//       err,
	//       log.OperationKey, log.OperationFit,
	//   )
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every subsequent entry.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at level. Use it to
	// skip building expensive fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
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

// LoggerProvider creates loggers. The package-level functions GetLogger and
// GetLoggerWithName delegate to the active provider.
type LoggerProvider interface {
	// GetLogger returns the root logger.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers created by this provider.
	SetLevel(level Level)
}

// splitFields normalises a field list: a leading error value (Logger.Error
// convention) is turned into an "error" key/value pair, and a trailing key
// without a value is dropped.
func splitFields(fields []any) []any {
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			out := make([]any, 0, len(fields)+1)
			out = append(out, ErrAttrKey, err)
			return append(out, fields[1:]...)
		}
		return fields[:len(fields)-1]
	}
	return fields
}
