// Package shard reads and writes JSON-array dataset files through a blob
// store.
//
// Files whose names end in ".zst" or ".lz4" are transparently decompressed
// on read and compressed on write. A shard is always decoded completely
// before any record is handed out, so a malformed file yields ErrParse and no
// records.
package shard
