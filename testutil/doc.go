// Package testutil provides testing utilities for groundtruth.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random vectors and dataset records,
// computing exact nearest neighbors by brute force, and comparing neighbor
// lists.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UniformVectors(100, 128) // uniform [0, 1)
//
// # Records
//
//	recs := testutil.Records(dataset.KindWikipedia, 0, vecs)
//
// # Exact Search
//
//	want := testutil.ExactTopK(query, ids, vecs, k)
package testutil
