package groundtruth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/groundtruth/blobstore"
	"github.com/hupe1980/groundtruth/dataset"
	"github.com/hupe1980/groundtruth/distance"
	"github.com/hupe1980/groundtruth/filter"
	"github.com/hupe1980/groundtruth/idset"
	"github.com/hupe1980/groundtruth/internal/scoring"
	"github.com/hupe1980/groundtruth/neighbor"
	"github.com/hupe1980/groundtruth/sampling"
	"github.com/hupe1980/groundtruth/shard"
)

// Output record fields added to every query.
const (
	NeighborsField       = "neighbors"
	FilterField          = "filter"
	FilterVectorIDsField = "filter_vector_ids"
)

// Summary reports the counters of a finished run.
type Summary struct {
	Queries       int
	Shards        int
	SkippedShards int
	// Total counts candidates with a valid id and embedding.
	Total int64
	// Excluded counts candidates rejected by the filter.
	Excluded int64
	// FilterIDs is the size of the sampled id set.
	FilterIDs int
	Duration  time.Duration
	Output    string
}

// ExclusionRatio returns Excluded/Total as a percentage.
func (s *Summary) ExclusionRatio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Excluded) / float64(s.Total) * 100
}

// Generator computes exact nearest neighbors for all queries of a dataset.
type Generator struct {
	store  blobstore.BlobStore
	cfg    Config
	kind   dataset.Kind
	dist   distance.Func
	filter filter.Spec
	opts   options

	reader *shard.Reader
	writer *shard.Writer
}

// New validates cfg and creates a Generator reading from and writing to store.
func New(store blobstore.BlobStore, cfg Config, optFns ...Option) (*Generator, error) {
	if cfg.HighWater == 0 {
		cfg.HighWater = scoring.DefaultHighWater
	}
	if cfg.TrainPrefix == "" {
		cfg.TrainPrefix = DefaultTrainPrefix
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	metric, err := distance.ParseMetric(cfg.Metric)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	dist, err := distance.Provider(metric)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	o := applyOptions(optFns)
	if o.outputName == "" {
		o.outputName = cfg.QueryFile + OutputSuffix
	}

	return &Generator{
		store:  store,
		cfg:    cfg,
		kind:   dataset.KindFromName(cfg.Dataset),
		dist:   dist,
		filter: filter.Parse(cfg.FilterField),
		opts:   o,
		reader: shard.NewReader(store, o.codec, o.resources),
		writer: shard.NewWriter(store, o.codec, o.resources),
	}, nil
}

// Config returns the effective configuration.
func (g *Generator) Config() Config { return g.cfg }

// Filter returns the parsed filter.
func (g *Generator) Filter() filter.Spec { return g.filter }

type query struct {
	id     int64
	record dataset.Record
	vec    []float32
	set    *neighbor.Set
}

// run holds the state of a single Run call.
type run struct {
	g       *Generator
	logger  *Logger
	queries []*query
	pool    *scoring.Pool
	marker  *sampling.Marker
	ids     *idset.Set
	summary Summary
}

// Run executes the pipeline: load queries, score every candidate shard,
// drain the per-query sets and write the output blob.
//
// A Generator may be run more than once; every run starts from scratch.
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	s, err := g.run(ctx)
	s.Duration = time.Since(start)
	g.opts.metricsCollector.RecordRun(s.Queries, s.Duration, err)
	if err != nil {
		return nil, err
	}
	g.opts.logger.LogSummary(ctx, s)
	return s, nil
}

func (g *Generator) run(ctx context.Context) (*Summary, error) {
	r := &run{
		g:      g,
		logger: g.opts.logger.WithDataset(g.cfg.Dataset).WithK(g.cfg.K),
		ids:    idset.New(),
	}
	r.summary.Output = g.opts.outputName

	r.logger.LogDroppedFilters(ctx, g.filter.Dropped)

	if g.cfg.EnableFilterVectorIDs {
		src := g.opts.source
		if src == nil {
			src = sampling.NewRandomSource()
		}
		m, err := sampling.NewMarker(g.cfg.FilterVectorIDRatio, src)
		if err != nil {
			return &r.summary, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		r.marker = m
	}

	if err := r.loadQueries(ctx); err != nil {
		return &r.summary, err
	}

	r.pool = scoring.New(ctx, scoring.Options{
		Workers:   g.cfg.Concurrency,
		HighWater: g.cfg.HighWater,
		Resources: g.opts.resources,
	}, r.score)

	if err := r.streamCandidates(ctx); err != nil {
		// Stop the workers before giving up; their error, if any, is the cause.
		if werr := r.pool.Wait(); werr != nil && !errors.Is(err, werr) {
			err = errors.Join(err, werr)
		}
		return &r.summary, err
	}

	if err := r.pool.Wait(); err != nil {
		return &r.summary, err
	}
	g.opts.metricsCollector.RecordBackpressure(int(r.pool.Stats().BackpressureWaits))

	r.summary.FilterIDs = r.ids.Len()

	if err := r.emit(ctx); err != nil {
		return &r.summary, err
	}
	return &r.summary, nil
}

func (r *run) loadQueries(ctx context.Context) error {
	g := r.g
	records, err := g.reader.ReadRecords(ctx, g.cfg.QueryFile)
	if err != nil {
		return fmt.Errorf("load queries %s: %w", g.cfg.QueryFile, err)
	}

	r.queries = make([]*query, 0, len(records))
	for i, rec := range records {
		vec, ok, err := rec.Embedding()
		if err != nil {
			return integrityError(g.cfg.QueryFile, i, err)
		}
		if !ok {
			return integrityError(g.cfg.QueryFile, i, dataset.ErrInvalidEmbedding)
		}
		if len(vec) != g.cfg.Dimension {
			return &ErrDimensionMismatch{Expected: g.cfg.Dimension, Actual: len(vec), Source: g.cfg.QueryFile, Index: i}
		}

		// Query ids are informational only.
		id, err := dataset.ExtractID(g.kind, rec)
		if err != nil {
			id = dataset.InvalidID
		}

		r.queries = append(r.queries, &query{
			id:     id,
			record: rec,
			vec:    vec,
			set:    neighbor.New(g.cfg.K),
		})
	}

	r.summary.Queries = len(r.queries)
	r.logger.LogQueries(ctx, g.cfg.QueryFile, len(r.queries), g.cfg.Dimension)
	return nil
}

// score offers a candidate to every query. It runs on the pool workers.
func (r *run) score(c scoring.Candidate) error {
	for _, q := range r.queries {
		q.set.Offer(c.ID, r.g.dist(q.vec, c.Embedding))
	}
	return nil
}

func (r *run) streamCandidates(ctx context.Context) error {
	g := r.g
	names, err := g.store.List(ctx, g.cfg.TrainPrefix)
	if err != nil {
		return fmt.Errorf("list shards %q: %w", g.cfg.TrainPrefix, err)
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.streamShard(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) streamShard(ctx context.Context, name string) error {
	g := r.g
	mc := g.opts.metricsCollector
	start := time.Now()

	records, err := g.reader.ReadRecords(ctx, name)
	if err != nil {
		if errors.Is(err, shard.ErrParse) {
			r.logger.LogSkippedShard(ctx, name, err)
			r.summary.SkippedShards++
			mc.RecordShard(0, time.Since(start), err)
			return nil
		}
		return fmt.Errorf("read shard %s: %w", name, err)
	}

	var total, excluded, marked int
	for i, rec := range records {
		if !rec.Has(dataset.EmbeddingField) {
			continue
		}

		id, err := dataset.ExtractID(g.kind, rec)
		if err != nil {
			return integrityError(name, i, err)
		}
		if id < 0 {
			return integrityError(name, i, fmt.Errorf("%w: %d", dataset.ErrInvalidID, id))
		}

		vec, _, err := rec.Embedding()
		if err != nil {
			if errors.Is(err, dataset.ErrEmbeddingNotArray) {
				continue
			}
			return integrityError(name, i, err)
		}
		if len(vec) != g.cfg.Dimension {
			return &ErrDimensionMismatch{Expected: g.cfg.Dimension, Actual: len(vec), Source: name, Index: i}
		}

		if r.marker != nil && r.marker.Mark() {
			if err := r.ids.Add(id); err != nil {
				return integrityError(name, i, err)
			}
			marked++
		}

		total++
		if g.filter.Exclude(rec) {
			excluded++
			continue
		}

		if err := r.pool.Submit(ctx, scoring.Candidate{ID: id, Embedding: vec}); err != nil {
			return err
		}
	}

	r.summary.Shards++
	r.summary.Total += int64(total)
	r.summary.Excluded += int64(excluded)

	d := time.Since(start)
	mc.RecordShard(len(records), d, nil)
	mc.RecordCandidates(total, excluded, marked)
	mc.RecordQueueDepth(int(r.pool.Pending()))
	r.logger.LogShard(ctx, name, len(records), d)
	return nil
}

func (r *run) emit(ctx context.Context) error {
	g := r.g
	out := make([]dataset.Record, 0, len(r.queries))

	for _, q := range r.queries {
		neighbors := q.set.Drain()

		rec := q.record.Clone()
		rec[NeighborsField] = neighbors

		if g.cfg.FilterField != "" {
			rec[FilterField] = g.cfg.FilterField
		}

		if g.cfg.EnableFilterVectorIDs {
			ids := r.ids.Clone()
			if !g.cfg.FilterVectorIDNegation {
				for _, n := range neighbors {
					if err := ids.Add(n.ID); err != nil {
						return err
					}
				}
			}
			rec[FilterVectorIDsField] = ids.Slice()
		}

		out = append(out, rec)
		r.logger.DebugContext(ctx, "query finalized", "query_id", q.id, "neighbors", len(neighbors))
	}

	if err := g.writer.WriteRecords(ctx, g.opts.outputName, out); err != nil {
		return fmt.Errorf("write %s: %w", g.opts.outputName, err)
	}
	return nil
}
