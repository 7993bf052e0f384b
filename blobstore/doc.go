// Package blobstore abstracts where dataset shards are read from and where
// results are written to.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system, read through mmap
//   - MemoryStore: in-process, for tests
//   - s3.Store: Amazon S3 with ranged reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// Names are slash separated and relative to the store root. List returns
// names in lexical order, which is the order shards are processed in.
package blobstore
