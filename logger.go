package sparsebits

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with sparsebits-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBit adds a bit number field to the logger.
func (l *Logger) WithBit(bit uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("bit", bit),
	}
}

// WithLevel adds a tree level field to the logger.
func (l *Logger) WithLevel(level int) *Logger {
	return &Logger{
		Logger: l.Logger.With("level", level),
	}
}

// LogRootGrowth logs the root being replaced by a taller node.
func (l *Logger) LogRootGrowth(bit uint64, from, to int) {
	l.Debug("root grown",
		"bit", bit,
		"from_level", from,
		"to_level", to,
	)
}

// LogValidate logs the outcome of a structural validation.
func (l *Logger) LogValidate(level int, err error) {
	if err != nil {
		l.Error("validation failed",
			"root_level", level,
			"error", err,
		)
	} else {
		l.Debug("validation passed",
			"root_level", level,
		)
	}
}
