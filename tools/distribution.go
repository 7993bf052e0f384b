package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/hupe1980/groundtruth"
	"github.com/hupe1980/groundtruth/dataset"
	"github.com/hupe1980/groundtruth/shard"
)

// DefaultDistributionOutput is the blob written by Distribution.
const DefaultDistributionOutput = "distribution.json"

// DistributionConfig configures Distribution.
type DistributionConfig struct {
	Dataset     string
	Field       string
	TrainPrefix string
	Output      string
}

// Bucket groups the ids of all records sharing one field value.
type Bucket struct {
	Value     string
	VectorIDs []int64
	// Rate is the share of records carrying the field, in percent.
	Rate float64
}

// Distribution builds a reverse index from the values of cfg.Field to vector
// ids over all candidate shards and writes it, largest bucket first.
//
// Integer and string values are indexed by their text; other kinds fall into
// the "" bucket. Unparsable shards are logged and skipped.
func (t *Tools) Distribution(ctx context.Context, cfg DistributionConfig) ([]Bucket, error) {
	kind := dataset.KindFromName(cfg.Dataset)
	if kind == dataset.KindUnknown {
		return nil, fmt.Errorf("%w: %q", groundtruth.ErrUnknownDataset, cfg.Dataset)
	}
	if cfg.Field == "" {
		return nil, &groundtruth.ErrConfigValue{Field: "field", Value: `""`, Reason: "must not be empty"}
	}
	if cfg.TrainPrefix == "" {
		cfg.TrainPrefix = groundtruth.DefaultTrainPrefix
	}
	if cfg.Output == "" {
		cfg.Output = DefaultDistributionOutput
	}

	names, err := t.store.List(ctx, cfg.TrainPrefix)
	if err != nil {
		return nil, fmt.Errorf("list shards %q: %w", cfg.TrainPrefix, err)
	}
	logger := t.opts.logger.WithDataset(cfg.Dataset)
	logger.InfoContext(ctx, "collecting distribution", "field", cfg.Field, "shards", len(names))

	var (
		total int
		index = make(map[string][]int64)
	)

	for _, name := range names {
		records, err := t.reader.ReadRecords(ctx, name)
		if err != nil {
			if errors.Is(err, shard.ErrParse) {
				logger.LogSkippedShard(ctx, name, err)
				continue
			}
			return nil, err
		}

		for i, rec := range records {
			raw, ok := rec[cfg.Field]
			if !ok {
				continue
			}
			total++

			id, err := dataset.ExtractID(kind, rec)
			if err != nil {
				return nil, fmt.Errorf("%w: %s record %d: %w", groundtruth.ErrDataIntegrity, name, i, err)
			}

			v := valueText(raw)
			index[v] = append(index[v], id)
		}
	}

	buckets := make([]Bucket, 0, len(index))
	for v, ids := range index {
		buckets = append(buckets, Bucket{
			Value:     v,
			VectorIDs: ids,
			Rate:      float64(len(ids)) / float64(total) * 100,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if len(buckets[i].VectorIDs) != len(buckets[j].VectorIDs) {
			return len(buckets[i].VectorIDs) > len(buckets[j].VectorIDs)
		}
		return buckets[i].Value < buckets[j].Value
	})

	out := make([]map[string]any, len(buckets))
	for i, b := range buckets {
		out[i] = map[string]any{
			cfg.Field:    bucketValue(b.Value),
			"rate":       b.Rate,
			"vector_ids": b.VectorIDs,
		}
	}
	if err := t.writer.WriteRecords(ctx, cfg.Output, out); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "distribution written", "output", cfg.Output, "records", total, "values", len(buckets))
	return buckets, nil
}

func valueText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if n, ok := dataset.AsInt64(v); ok {
		return strconv.FormatInt(n, 10)
	}
	return ""
}

// bucketValue restores all-digit values to integers.
func bucketValue(s string) any {
	if s == "" {
		return s
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return s
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	return n
}
