package sparsebits

import (
	"log/slog"

	"github.com/hupe1980/sparsebits/internal/addr"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	initialLevel     int
}

// Option configures Bitmap constructor behavior.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sparsebits.BasicMetricsCollector{}
//	bm := sparsebits.New(sparsebits.WithMetricsCollector(metrics))
//	// ... use bm ...
//	stats := metrics.GetStats()
//	fmt.Printf("Sets: %d, new members: %d\n", stats.SetCount, stats.SetChanged)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := sparsebits.NewJSONLogger(slog.LevelDebug)
//	bm := sparsebits.New(sparsebits.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithInitialLevel pre-grows the root to level, so that bit numbers up to
// the level's range never trigger root growth. Values are clamped to the
// valid node levels.
func WithInitialLevel(level int) Option {
	return func(o *options) {
		o.initialLevel = min(max(level, addr.BottomLevel), addr.MaxLevel)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		initialLevel:     addr.BottomLevel,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
