package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/groundtruth"
	"github.com/hupe1980/groundtruth/resource"
	"github.com/hupe1980/groundtruth/shard"
)

const (
	// FilterIDField is the synthetic field added by AddField.
	FilterIDField = "filter_id"

	// ExtendSuffix is appended to the names of rewritten shards.
	ExtendSuffix = ".extend"

	filterIDMin = 1
	filterIDMax = 100_000_000
)

// AddFieldConfig configures AddField.
type AddFieldConfig struct {
	TrainPrefix string
	// Concurrency is the number of shards processed at once. It is ignored
	// when Tools carries a resource controller.
	Concurrency int
}

// AddFieldReport counts the work done by AddField.
type AddFieldReport struct {
	Shards  int
	Skipped int
	Records int64
}

// AddField copies every candidate shard to "<name>.extend" with a random
// integer filter_id in [1, 100000000] added to each record.
func (t *Tools) AddField(ctx context.Context, cfg AddFieldConfig) (*AddFieldReport, error) {
	if cfg.TrainPrefix == "" {
		cfg.TrainPrefix = groundtruth.DefaultTrainPrefix
	}

	rc := t.opts.resources
	if rc == nil {
		rc = resource.NewController(resource.Config{MaxWorkers: int64(max(cfg.Concurrency, 1))})
	}

	names, err := t.store.List(ctx, cfg.TrainPrefix)
	if err != nil {
		return nil, fmt.Errorf("list shards %q: %w", cfg.TrainPrefix, err)
	}
	t.opts.logger.InfoContext(ctx, "adding filter field", "shards", len(names))

	var (
		shards, skipped atomic.Int64
		records         atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		if strings.HasSuffix(name, ExtendSuffix) {
			continue
		}
		if err := rc.AcquireWorker(gctx); err != nil {
			break
		}

		g.Go(func() error {
			defer rc.ReleaseWorker()

			n, err := t.addFieldToShard(gctx, name)
			if err != nil {
				if errors.Is(err, shard.ErrParse) {
					t.opts.logger.LogSkippedShard(gctx, name, err)
					skipped.Add(1)
					return nil
				}
				return err
			}
			shards.Add(1)
			records.Add(int64(n))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &AddFieldReport{
		Shards:  int(shards.Load()),
		Skipped: int(skipped.Load()),
		Records: records.Load(),
	}, nil
}

func (t *Tools) addFieldToShard(ctx context.Context, name string) (int, error) {
	records, err := t.reader.ReadRecords(ctx, name)
	if err != nil {
		return 0, err
	}

	for _, rec := range records {
		rec[FilterIDField] = t.opts.source.IntRange(filterIDMin, filterIDMax)
	}

	if err := t.writer.WriteRecords(ctx, name+ExtendSuffix, records); err != nil {
		return 0, err
	}
	t.opts.logger.DebugContext(ctx, "shard extended", "shard", name, "records", len(records))
	return len(records), nil
}
