package blobstore

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps blobs in a map. It backs the tests of every package
// that reads or writes shards.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]memBlob
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]memBlob)}
}

func (m *MemoryStore) get(name string) (memBlob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[name]
	return b, ok
}

func (m *MemoryStore) set(name string, data []byte) {
	m.mu.Lock()
	m.blobs[name] = memBlob(bytes.Clone(data))
	m.mu.Unlock()
}

// Open implements BlobStore. Stored bytes are never modified in place, so
// the returned blob shares them.
func (m *MemoryStore) Open(_ context.Context, name string) (Blob, error) {
	b, ok := m.get(name)
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

// Create implements BlobStore.
func (m *MemoryStore) Create(_ context.Context, name string) (WritableBlob, error) {
	return &memWriter{commit: func(data []byte) { m.set(name, data) }}, nil
}

// Put implements BlobStore.
func (m *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	m.set(name, data)
	return nil
}

// Delete implements BlobStore.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	delete(m.blobs, name)
	m.mu.Unlock()
	return nil
}

// List implements BlobStore.
func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	names := make([]string, 0, len(m.blobs))
	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	m.mu.RUnlock()

	slices.Sort(names)
	return names, nil
}

// Bytes returns a copy of the named blob.
func (m *MemoryStore) Bytes(name string) ([]byte, bool) {
	b, ok := m.get(name)
	return bytes.Clone(b), ok
}

// memBlob is an immutable stored blob.
type memBlob []byte

func (b memBlob) Size() int64 { return int64(len(b)) }

func (b memBlob) Close() error { return nil }

func (b memBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, io.EOF
	}
	return bytes.NewReader(b).ReadAt(p, off)
}

func (b memBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	if off < 0 || off >= b.Size() {
		return nil, io.EOF
	}
	return io.NopCloser(io.NewSectionReader(bytes.NewReader(b), off, length)), nil
}

// memWriter buffers writes and publishes them on Close.
type memWriter struct {
	bytes.Buffer
	commit func([]byte)
}

func (w *memWriter) Close() error {
	w.commit(w.Bytes())
	return nil
}

func (w *memWriter) Sync() error { return nil }
