package octree

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with index-specific helpers so operations log
// with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. A nil handler falls
// back to a text handler on stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger with human-readable output on stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a Logger with JSON output on stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output. It is the
// default for new indexes.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	}))
}

// LogPut logs an insertion or replacement.
func (l *Logger) LogPut(p Point3D, replaced bool) {
	l.Debug("put", "point", p.String(), "replaced", replaced)
}

// LogRemove logs a removal.
func (l *Logger) LogRemove(p Point3D) {
	l.Debug("remove", "point", p.String())
}

// LogNearest logs a nearest-neighbor query.
func (l *Logger) LogNearest(q Point3D, n, found int) {
	l.Debug("nearest", "query", q.String(), "n", n, "found", found)
}
