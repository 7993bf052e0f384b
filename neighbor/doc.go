// Package neighbor implements the bounded, thread-safe top-K collector that
// holds the ground-truth neighbors of a single query.
//
// A Set is a max-heap keyed by distance: its root is always the current worst
// neighbor, so deciding whether a new candidate belongs in the top K is a
// single comparison. Each Set carries its own mutex. Workers scoring the same
// candidate against different queries never contend; workers scoring
// different candidates against the same query serialize on that query's lock.
//
// Ties between equal distances are resolved by arrival order, which is not
// deterministic when offers come from several goroutines.
package neighbor
