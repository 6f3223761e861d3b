package nmslib

import "github.com/Tencv/nmslib/progress"

// Options configures an Index.
type Options struct {
	// Logger receives operation logs. Defaults to NoopLogger.
	Logger *Logger

	// Metrics receives operational metrics. Defaults to
	// NoopMetricsCollector.
	Metrics MetricsCollector

	// Progress receives batched build completion counts. Defaults to
	// progress.NoopTracker.
	Progress progress.Tracker
}

// Option mutates Options.
type Option func(o *Options)

// WithLogger sets the structured logger for operation tracing.
func WithLogger(l *Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMetrics sets the metrics collector for monitoring.
func WithMetrics(mc MetricsCollector) Option {
	return func(o *Options) {
		o.Metrics = mc
	}
}

// WithProgress sets the build progress tracker.
func WithProgress(t progress.Tracker) Option {
	return func(o *Options) {
		o.Progress = t
	}
}
