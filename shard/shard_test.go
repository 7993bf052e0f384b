package shard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/groundtruth/blobstore"
	"github.com/hupe1980/groundtruth/codec"
	"github.com/hupe1980/groundtruth/dataset"
	"github.com/hupe1980/groundtruth/resource"
)

func TestCompressionFor(t *testing.T) {
	assert.Equal(t, CompressionNone, CompressionFor("train-1.json"))
	assert.Equal(t, CompressionZSTD, CompressionFor("train-1.json.zst"))
	assert.Equal(t, CompressionLZ4, CompressionFor("train-1.json.lz4"))
	assert.Equal(t, "zstd", CompressionZSTD.String())
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"train-1.json", "train-1.json.zst", "train-1.json.lz4"} {
		t.Run(name, func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})

			recs := []dataset.Record{
				{"id": int64(9007199254740993), "emb": []float32{0.5, 1}, "title": "a"},
				{"id": int64(2), "emb": []float32{2, 3}, "title": "b"},
			}

			require.NoError(t, NewWriter(store, nil, rc).WriteRecords(t.Context(), name, recs))

			got, err := NewReader(store, codec.JSON{}, rc).ReadRecords(t.Context(), name)
			require.NoError(t, err)
			require.Len(t, got, 2)

			id, ok := got[0].Int("id")
			require.True(t, ok)
			assert.Equal(t, int64(9007199254740993), id)

			emb, ok, err := got[1].Embedding()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []float32{2, 3}, emb)
		})
	}
}

func TestCompressedOnDisk(t *testing.T) {
	store := blobstore.NewMemoryStore()
	data := []byte(`[{"id": 1}]`)

	require.NoError(t, NewWriter(store, nil, nil).WriteBytes(t.Context(), "x.json.zst", data))

	raw, ok := store.Bytes("x.json.zst")
	require.True(t, ok)
	assert.NotEqual(t, data, raw)

	plain, err := NewReader(store, nil, nil).ReadBytes(t.Context(), "x.json.zst")
	require.NoError(t, err)
	assert.Equal(t, data, plain)
}

func TestReadRecordsParseErrors(t *testing.T) {
	store := blobstore.NewMemoryStore()
	ctx := t.Context()

	require.NoError(t, store.Put(ctx, "truncated.json", []byte(`[{"id": 1, "emb": [1,`)))
	require.NoError(t, store.Put(ctx, "object.json", []byte(`{"id": 1}`)))
	require.NoError(t, store.Put(ctx, "empty.json", nil))
	require.NoError(t, store.Put(ctx, "garbage.json.zst", []byte("not zstd")))
	require.NoError(t, store.Put(ctx, "garbage.json.lz4", []byte("not lz4")))

	r := NewReader(store, nil, nil)
	for _, name := range []string{"truncated.json", "object.json", "empty.json", "garbage.json.zst", "garbage.json.lz4"} {
		t.Run(name, func(t *testing.T) {
			recs, err := r.ReadRecords(ctx, name)
			assert.ErrorIs(t, err, ErrParse)
			assert.Nil(t, recs)
		})
	}

	_, err := r.ReadRecords(ctx, "missing.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.NotErrorIs(t, err, ErrParse)
}
