package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/groundtruth"
	"github.com/hupe1980/groundtruth/blobstore"
	"github.com/hupe1980/groundtruth/codec"
	"github.com/hupe1980/groundtruth/dataset"
	"github.com/hupe1980/groundtruth/resource"
	"github.com/hupe1980/groundtruth/sampling"
	"github.com/hupe1980/groundtruth/shard"
)

func put(t *testing.T, store blobstore.BlobStore, name string, recs []dataset.Record) {
	t.Helper()
	require.NoError(t, shard.NewWriter(store, codec.Default, nil).WriteRecords(context.Background(), name, recs))
}

func read(t *testing.T, store blobstore.BlobStore, name string) []dataset.Record {
	t.Helper()
	recs, err := shard.NewReader(store, codec.Default, nil).ReadRecords(context.Background(), name)
	require.NoError(t, err)
	return recs
}

func rec(id int64, fields ...any) dataset.Record {
	r := dataset.Record{"id": id, dataset.EmbeddingField: []float32{0, 1}}
	for i := 0; i+1 < len(fields); i += 2 {
		r[fields[i].(string)] = fields[i+1]
	}
	return r
}

func TestDistribution(t *testing.T) {
	store := blobstore.NewMemoryStore()
	put(t, store, "train-00.json", []dataset.Record{
		rec(1, "lang", "en"),
		rec(2, "lang", int64(42)),
		rec(3, "lang", "en"),
		rec(4),
	})
	put(t, store, "train-01.json", []dataset.Record{
		rec(5, "lang", "de"),
		rec(6, "lang", "en"),
	})
	require.NoError(t, store.Put(t.Context(), "train-02.json", []byte("garbage")))

	buckets, err := New(store).Distribution(t.Context(), DistributionConfig{Dataset: "wikipedia", Field: "lang"})
	require.NoError(t, err)

	require.Len(t, buckets, 3)
	assert.Equal(t, "en", buckets[0].Value)
	assert.Equal(t, []int64{1, 3, 6}, buckets[0].VectorIDs)
	assert.InDelta(t, 60.0, buckets[0].Rate, 1e-9)
	assert.Equal(t, "42", buckets[1].Value)
	assert.Equal(t, "de", buckets[2].Value)

	out := read(t, store, DefaultDistributionOutput)
	require.Len(t, out, 3)
	lang, ok := out[1].Int("lang")
	require.True(t, ok)
	assert.Equal(t, int64(42), lang)
	s, ok := out[0].String("lang")
	require.True(t, ok)
	assert.Equal(t, "en", s)
	assert.True(t, out[0].Has("rate"))
	assert.True(t, out[0].Has("vector_ids"))
}

func TestDistributionConfigErrors(t *testing.T) {
	tl := New(blobstore.NewMemoryStore())

	_, err := tl.Distribution(t.Context(), DistributionConfig{Dataset: "other", Field: "x"})
	assert.ErrorIs(t, err, groundtruth.ErrUnknownDataset)

	_, err = tl.Distribution(t.Context(), DistributionConfig{Dataset: "wikipedia"})
	assert.ErrorIs(t, err, groundtruth.ErrInvalidConfig)
}

func TestBucketValue(t *testing.T) {
	assert.Equal(t, int64(17), bucketValue("17"))
	assert.Equal(t, "17a", bucketValue("17a"))
	assert.Equal(t, "", bucketValue(""))
	assert.Equal(t, "-3", bucketValue("-3"))
	assert.Equal(t, "99999999999999999999", bucketValue("99999999999999999999"))
}

func TestAddField(t *testing.T) {
	store := blobstore.NewMemoryStore()
	put(t, store, "train-00.json", []dataset.Record{rec(1), rec(2)})
	put(t, store, "train-01.json", []dataset.Record{rec(3)})
	put(t, store, "train-02.json.extend", []dataset.Record{rec(9)})
	require.NoError(t, store.Put(t.Context(), "train-03.json", []byte("[")))

	tl := New(store, WithSource(sampling.NewSource(7)))
	report, err := tl.AddField(t.Context(), AddFieldConfig{Concurrency: 3})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Shards)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, int64(3), report.Records)

	for _, name := range []string{"train-00.json", "train-01.json"} {
		for _, r := range read(t, store, name+ExtendSuffix) {
			v, ok := r.Int(FilterIDField)
			require.True(t, ok)
			assert.GreaterOrEqual(t, v, int64(filterIDMin))
			assert.LessOrEqual(t, v, int64(filterIDMax))
			assert.True(t, r.Has(dataset.EmbeddingField))
		}
	}

	// Source shards are left untouched.
	assert.False(t, read(t, store, "train-00.json")[0].Has(FilterIDField))

	_, ok := store.Bytes("train-02.json.extend.extend")
	assert.False(t, ok)
}

func TestAddFieldWithResources(t *testing.T) {
	store := blobstore.NewMemoryStore()
	for _, name := range []string{"train-a.json", "train-b.json", "train-c.json"} {
		put(t, store, name, []dataset.Record{rec(1)})
	}

	rc := resource.NewController(resource.Config{MaxWorkers: 1})
	report, err := New(store, WithResources(rc)).AddField(t.Context(), AddFieldConfig{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Shards)
}

func TestSplit(t *testing.T) {
	store := blobstore.NewMemoryStore()
	put(t, store, "base.json", []dataset.Record{rec(1), rec(2), rec(3)})

	tl := New(store)

	left, right, err := tl.Split(t.Context(), "base.json", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, left)
	assert.Equal(t, 1, right)
	assert.Len(t, read(t, store, "base.json"+LeftSuffix), 2)

	r := read(t, store, "base.json"+RightSuffix)
	require.Len(t, r, 1)
	id, _ := r[0].Int("id")
	assert.Equal(t, int64(3), id)

	left, right, err = tl.Split(t.Context(), "base.json", DefaultSplitNum)
	require.NoError(t, err)
	assert.Equal(t, 3, left)
	assert.Equal(t, 0, right)
	assert.Empty(t, read(t, store, "base.json"+RightSuffix))

	_, _, err = tl.Split(t.Context(), "base.json", -1)
	assert.ErrorIs(t, err, groundtruth.ErrInvalidConfig)

	_, _, err = tl.Split(t.Context(), "missing.json", 1)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
