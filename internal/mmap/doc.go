// Package mmap maps shard files read-only into memory.
//
//	m, err := mmap.Open("train-0001.json")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// ignores access hints. Bytes must not be used after Close.
package mmap
