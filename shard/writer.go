package shard

import (
	"context"
	"fmt"

	"github.com/hupe1980/groundtruth/blobstore"
	"github.com/hupe1980/groundtruth/codec"
	"github.com/hupe1980/groundtruth/resource"
)

// Writer encodes values as JSON and stores them.
type Writer struct {
	store blobstore.BlobStore
	codec codec.Codec
	rc    *resource.Controller
}

// NewWriter creates a Writer. A nil codec selects codec.Default.
func NewWriter(store blobstore.BlobStore, c codec.Codec, rc *resource.Controller) *Writer {
	if c == nil {
		c = codec.Default
	}
	return &Writer{store: store, codec: c, rc: rc}
}

// WriteRecords encodes v, typically a slice of records, to name. An existing
// blob is replaced.
func (w *Writer) WriteRecords(ctx context.Context, name string, v any) error {
	data, err := w.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return w.WriteBytes(ctx, name, data)
}

// WriteBytes compresses data according to name and stores it.
func (w *Writer) WriteBytes(ctx context.Context, name string, data []byte) error {
	data, err := compress(CompressionFor(name), data)
	if err != nil {
		return fmt.Errorf("compress %s: %w", name, err)
	}

	blob, err := w.store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := resource.NewRateLimitedWriter(ctx, blob, w.rc).Write(data); err != nil {
		_ = blob.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := blob.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}
