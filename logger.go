package indexarray

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with collection-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

var noopLogger = NoopLogger()

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

// WithField adds a field name to the logger.
func (l *Logger) WithField(field string) *Logger {
	return &Logger{
		Logger: l.Logger.With("field", field),
	}
}

// LogReindex logs an index build.
func (l *Logger) LogReindex(field string, records, keys int, elapsed time.Duration) {
	l.Debug("index built",
		"field", field,
		"records", records,
		"keys", keys,
		"duration", elapsed,
	)
}

// LogIndexDropped logs an index that was found out of step with the records
// and discarded.
func (l *Logger) LogIndexDropped(field, reason string) {
	l.Warn("index dropped, rebuilding on next lookup",
		"field", field,
		"reason", reason,
	)
}

// LogReplace logs a replace. pos is -1 when the criterion matched nothing.
func (l *Logger) LogReplace(cr Criterion, pos int) {
	if pos < 0 {
		l.Debug("replace skipped, no match",
			"criterion", cr.String(),
		)
		return
	}
	l.Debug("replace completed",
		"criterion", cr.String(),
		"position", pos,
	)
}

// LogRemove logs a remove. pos is -1 when the criterion matched nothing.
func (l *Logger) LogRemove(cr Criterion, pos int) {
	if pos < 0 {
		l.Debug("remove skipped, no match",
			"criterion", cr.String(),
		)
		return
	}
	l.Debug("remove completed",
		"criterion", cr.String(),
		"position", pos,
	)
}

// LogSplice logs a splice.
func (l *Logger) LogSplice(start, removed, inserted, droppedIndexes int) {
	l.Debug("splice completed",
		"start", start,
		"removed", removed,
		"inserted", inserted,
		"dropped_indexes", droppedIndexes,
	)
}
