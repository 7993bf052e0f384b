package groundtruth

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// See package metric/prometheus for a Prometheus implementation.
type MetricsCollector interface {
	// RecordShard is called after each candidate shard. err is non-nil when
	// the shard was skipped.
	RecordShard(records int, duration time.Duration, err error)

	// RecordCandidates is called once per shard with the number of valid
	// candidates seen, how many the filter excluded and how many were sampled.
	RecordCandidates(total, excluded, marked int)

	// RecordBackpressure is called with the number of submissions that had
	// to wait for the scoring queue to drain.
	RecordBackpressure(waits int)

	// RecordQueueDepth reports the number of pending scoring tasks.
	RecordQueueDepth(pending int)

	// RecordRun is called once at the end of a run.
	RecordRun(queries int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordShard(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCandidates(int, int, int)        {}
func (NoopMetricsCollector) RecordBackpressure(int)                {}
func (NoopMetricsCollector) RecordQueueDepth(int)                  {}
func (NoopMetricsCollector) RecordRun(int, time.Duration, error)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	ShardCount        atomic.Int64
	ShardErrors       atomic.Int64
	ShardRecords      atomic.Int64
	ShardTotalNanos   atomic.Int64
	Candidates        atomic.Int64
	Excluded          atomic.Int64
	Marked            atomic.Int64
	BackpressureWaits atomic.Int64
	QueueDepth        atomic.Int64
	RunCount          atomic.Int64
	RunErrors         atomic.Int64
	Queries           atomic.Int64
	RunTotalNanos     atomic.Int64
}

// RecordShard implements MetricsCollector.
func (b *BasicMetricsCollector) RecordShard(records int, duration time.Duration, err error) {
	b.ShardCount.Add(1)
	b.ShardRecords.Add(int64(records))
	b.ShardTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ShardErrors.Add(1)
	}
}

// RecordCandidates implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCandidates(total, excluded, marked int) {
	b.Candidates.Add(int64(total))
	b.Excluded.Add(int64(excluded))
	b.Marked.Add(int64(marked))
}

// RecordBackpressure implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBackpressure(waits int) {
	b.BackpressureWaits.Add(int64(waits))
}

// RecordQueueDepth implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQueueDepth(pending int) {
	b.QueueDepth.Store(int64(pending))
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(queries int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.Queries.Add(int64(queries))
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ShardCount:        b.ShardCount.Load(),
		ShardErrors:       b.ShardErrors.Load(),
		ShardRecords:      b.ShardRecords.Load(),
		Candidates:        b.Candidates.Load(),
		Excluded:          b.Excluded.Load(),
		Marked:            b.Marked.Load(),
		BackpressureWaits: b.BackpressureWaits.Load(),
		RunCount:          b.RunCount.Load(),
		RunErrors:         b.RunErrors.Load(),
		Queries:           b.Queries.Load(),
	}
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	ShardCount        int64
	ShardErrors       int64
	ShardRecords      int64
	Candidates        int64
	Excluded          int64
	Marked            int64
	BackpressureWaits int64
	RunCount          int64
	RunErrors         int64
	Queries           int64
}
