package tools

import (
	"github.com/hupe1980/groundtruth"
	"github.com/hupe1980/groundtruth/blobstore"
	"github.com/hupe1980/groundtruth/codec"
	"github.com/hupe1980/groundtruth/resource"
	"github.com/hupe1980/groundtruth/sampling"
	"github.com/hupe1980/groundtruth/shard"
)

// Tools runs maintenance commands against one dataset store.
type Tools struct {
	store  blobstore.BlobStore
	opts   options
	reader *shard.Reader
	writer *shard.Writer
}

type options struct {
	codec     codec.Codec
	logger    *groundtruth.Logger
	resources *resource.Controller
	source    sampling.Source
}

// Option configures Tools.
type Option func(*options)

// WithCodec sets the record codec. Nil selects codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *groundtruth.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = groundtruth.NoopLogger()
		}
		o.logger = l
	}
}

// WithResources bounds shard parallelism and I/O bandwidth.
func WithResources(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithSource sets the random source used by AddField.
func WithSource(src sampling.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// New creates Tools operating on store.
func New(store blobstore.BlobStore, optFns ...Option) *Tools {
	o := options{
		codec:  codec.Default,
		logger: groundtruth.NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.source == nil {
		o.source = sampling.NewRandomSource()
	}

	return &Tools{
		store:  store,
		opts:   o,
		reader: shard.NewReader(store, o.codec, o.resources),
		writer: shard.NewWriter(store, o.codec, o.resources),
	}
}
