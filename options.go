package indexarray

import (
	"log/slog"

	"github.com/hupe1980/indexarray/codec"
)

type options struct {
	codec            codec.Codec
	compression      codec.Compression
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Collection.
type Option func(*options)

// WithCodec configures the JSON codec used by MarshalJSON and UnmarshalJSON.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the block compression used by MarshalBinary.
// Decoding reads the algorithm from the encoded header.
func WithCompression(c codec.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &indexarray.BasicMetricsCollector{}
//	c := indexarray.New(indexarray.WithMetricsCollector(metrics))
//	// ... use c ...
//	stats := metrics.GetStats()
//	fmt.Printf("Fetches: %d, misses: %d\n", stats.FetchCount, stats.FetchMisses)
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
//	logger := indexarray.NewJSONLogger(slog.LevelDebug)
//	c := indexarray.New(indexarray.WithLogger(logger))
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

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      codec.CompressionNone,
		metricsCollector: NoopMetricsCollector{},
		logger:           noopLogger,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
