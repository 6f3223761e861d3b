package nmslib

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with index-specific helpers so operations
// log consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is
// nil, a text handler to stderr at Info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that outputs human-readable text
// logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))}
}

// LogBuild logs an index build.
func (l *Logger) LogBuild(nodes int, duration time.Duration, err error) {
	if err != nil {
		l.Error("index build failed", "nodes", nodes, "error", err)
	} else {
		l.Info("index build completed", "nodes", nodes, "duration", duration)
	}
}

// LogSearch logs a kNN search.
func (l *Logger) LogSearch(algo string, k, resultsFound int, err error) {
	if err != nil {
		l.Error("search failed", "algo", algo, "k", k, "error", err)
	} else {
		l.Debug("search completed", "algo", algo, "k", k, "results", resultsFound)
	}
}

// LogSave logs an index save.
func (l *Logger) LogSave(location string, err error) {
	if err != nil {
		l.Error("index save failed", "location", location, "error", err)
	} else {
		l.Info("index saved", "location", location)
	}
}

// LogLoad logs an index load.
func (l *Logger) LogLoad(location string, nodes int, err error) {
	if err != nil {
		l.Error("index load failed", "location", location, "error", err)
	} else {
		l.Info("index loaded", "location", location, "nodes", nodes)
	}
}
