package shard

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/groundtruth/blobstore"
	"github.com/hupe1980/groundtruth/codec"
	"github.com/hupe1980/groundtruth/dataset"
	"github.com/hupe1980/groundtruth/resource"
)

// ErrParse is returned when a shard cannot be decompressed or decoded.
var ErrParse = errors.New("malformed shard")

// Reader loads whole shards.
type Reader struct {
	store blobstore.BlobStore
	codec codec.Codec
	rc    *resource.Controller
}

// NewReader creates a Reader. A nil codec selects codec.Default and a nil
// controller disables I/O throttling.
func NewReader(store blobstore.BlobStore, c codec.Codec, rc *resource.Controller) *Reader {
	if c == nil {
		c = codec.Default
	}
	return &Reader{store: store, codec: c, rc: rc}
}

// ReadBytes returns the decompressed content of name.
func (r *Reader) ReadBytes(ctx context.Context, name string) ([]byte, error) {
	blob, err := r.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer blob.Close()

	var raw []byte
	if size := blob.Size(); size > 0 {
		rc, err := blob.ReadRange(ctx, 0, size)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		defer rc.Close()

		var buf bytes.Buffer
		buf.Grow(int(size))
		if _, err := buf.ReadFrom(resource.NewRateLimitedReader(ctx, rc, r.rc)); err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		raw = buf.Bytes()
	}

	data, err := decompress(CompressionFor(name), raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
	}
	return data, nil
}

// ReadRecords decodes name as a JSON array of objects.
func (r *Reader) ReadRecords(ctx context.Context, name string) ([]dataset.Record, error) {
	data, err := r.ReadBytes(ctx, name)
	if err != nil {
		return nil, err
	}

	var recs []dataset.Record
	if err := r.codec.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
	}
	return recs, nil
}
