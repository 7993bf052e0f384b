package groundtruth

import (
	"github.com/hupe1980/groundtruth/codec"
	"github.com/hupe1980/groundtruth/resource"
	"github.com/hupe1980/groundtruth/sampling"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	source           sampling.Source
	resources        *resource.Controller
	outputName       string
}

// Option configures a Generator.
type Option func(*options)

// WithCodec configures the codec used for query, shard and output files.
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

// WithMetricsCollector sets the metrics sink. Nil restores the no-op
// collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithSource sets the random source for filter vector id sampling. A seeded
// source makes the sampled set reproducible for a fixed shard order.
func WithSource(src sampling.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithResources shares a resource controller with the generator. It bounds
// queued candidate memory and shard I/O bandwidth. The number of scoring
// workers is always Config.Concurrency.
func WithResources(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithOutputName overrides the output blob name. The default is the query file
// name with a ".neighbor" suffix.
func WithOutputName(name string) Option {
	return func(o *options) {
		o.outputName = name
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
