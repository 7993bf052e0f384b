package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "groundtruth"

// Collector holds the Prometheus collectors of a generator run.
type Collector struct {
	ShardsTotal       *prometheus.CounterVec
	ShardRecordsTotal prometheus.Counter
	ShardDuration     prometheus.Histogram
	CandidatesTotal   prometheus.Counter
	ExcludedTotal     prometheus.Counter
	MarkedTotal       prometheus.Counter
	BackpressureWaits prometheus.Counter
	QueueDepth        prometheus.Gauge
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	QueriesTotal      prometheus.Counter
}

// NewCollector creates the collectors and registers them with reg. A nil reg
// selects prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		ShardsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shards_total",
				Help:      "Candidate shards processed by status (ok, skipped).",
			},
			[]string{"status"},
		),
		ShardRecordsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shard_records_total",
				Help:      "Records decoded from candidate shards.",
			},
		),
		ShardDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "shard_duration_seconds",
				Help:      "Time to read, decode and enqueue one shard.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		CandidatesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "candidates_total",
				Help:      "Candidates with a valid id and embedding.",
			},
		),
		ExcludedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "candidates_excluded_total",
				Help:      "Candidates rejected by the attribute filter.",
			},
		),
		MarkedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "candidates_marked_total",
				Help:      "Candidates sampled into the filter vector id set.",
			},
		),
		BackpressureWaits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backpressure_waits_total",
				Help:      "Submissions that blocked on a full scoring queue.",
			},
		),
		QueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queue_depth",
				Help:      "Pending scoring tasks after the last shard.",
			},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Generator runs by result (ok, error).",
			},
			[]string{"result"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of a generator run.",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		QueriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Queries whose neighbors were computed.",
			},
		),
	}

	reg.MustRegister(
		c.ShardsTotal,
		c.ShardRecordsTotal,
		c.ShardDuration,
		c.CandidatesTotal,
		c.ExcludedTotal,
		c.MarkedTotal,
		c.BackpressureWaits,
		c.QueueDepth,
		c.RunsTotal,
		c.RunDuration,
		c.QueriesTotal,
	)

	return c
}

// RecordShard implements groundtruth.MetricsCollector.
func (c *Collector) RecordShard(records int, duration time.Duration, err error) {
	if err != nil {
		c.ShardsTotal.WithLabelValues("skipped").Inc()
		return
	}
	c.ShardsTotal.WithLabelValues("ok").Inc()
	c.ShardRecordsTotal.Add(float64(records))
	c.ShardDuration.Observe(duration.Seconds())
}

// RecordCandidates implements groundtruth.MetricsCollector.
func (c *Collector) RecordCandidates(total, excluded, marked int) {
	c.CandidatesTotal.Add(float64(total))
	c.ExcludedTotal.Add(float64(excluded))
	c.MarkedTotal.Add(float64(marked))
}

// RecordBackpressure implements groundtruth.MetricsCollector.
func (c *Collector) RecordBackpressure(waits int) {
	c.BackpressureWaits.Add(float64(waits))
}

// RecordQueueDepth implements groundtruth.MetricsCollector.
func (c *Collector) RecordQueueDepth(pending int) {
	c.QueueDepth.Set(float64(pending))
}

// RecordRun implements groundtruth.MetricsCollector.
func (c *Collector) RecordRun(queries int, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.RunsTotal.WithLabelValues(result).Inc()
	c.RunDuration.Observe(duration.Seconds())
	c.QueriesTotal.Add(float64(queries))
}

// Handler returns the scrape handler for g. A nil g selects
// prometheus.DefaultGatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
