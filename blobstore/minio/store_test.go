package minio

import (
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/groundtruth/blobstore"
)

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("train-1.json"))
	assert.Equal(t, "application/zstd", contentType("train-1.json.zst"))
	assert.Equal(t, "application/octet-stream", contentType("train-1.json.lz4"))
}

func TestNew(t *testing.T) {
	store, err := New("localhost:9000", "bucket", WithPrefix("p/"), WithCredentials("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "p/x.json", store.key("x.json"))
}

// Requires MINIO_ENDPOINT and a bucket named by MINIO_BUCKET.
func TestStore_Integration(t *testing.T) {
	endpoint, bucket := os.Getenv("MINIO_ENDPOINT"), os.Getenv("MINIO_BUCKET")
	if endpoint == "" || bucket == "" {
		t.Skip("Skipping MinIO integration test: MINIO_ENDPOINT or MINIO_BUCKET not set")
	}

	store, err := New(endpoint, bucket, WithPrefix(fmt.Sprintf("groundtruth-test-%d/", time.Now().UnixNano())))
	require.NoError(t, err)
	ctx := t.Context()

	data := []byte(`[{"id": 1, "emb": [0, 1]}]`)
	require.NoError(t, store.Put(ctx, "train-1.json", data))

	wb, err := store.Create(ctx, "train-2.json")
	require.NoError(t, err)
	_, err = wb.Write(data)
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	names, err := store.List(ctx, "train")
	require.NoError(t, err)
	assert.Equal(t, []string{"train-1.json", "train-2.json"}, names)

	blob, err := store.Open(ctx, "train-2.json")
	require.NoError(t, err)
	got, err := blobstore.ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	rc, err := blob.ReadRange(ctx, 2, 4)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, `"id"`, string(part))

	for _, name := range names {
		require.NoError(t, store.Delete(ctx, name))
	}
	_, err = store.Open(ctx, "train-1.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
