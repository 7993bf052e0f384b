package tools

import (
	"context"
	"fmt"

	"github.com/hupe1980/groundtruth"
	"github.com/hupe1980/groundtruth/dataset"
)

const (
	// DefaultSplitNum is the default size of the left part.
	DefaultSplitNum = 1000

	LeftSuffix  = ".left"
	RightSuffix = ".right"
)

// Split writes the first n records of name to "<name>.left" and the rest to
// "<name>.right". Both parts are always written, possibly empty.
func (t *Tools) Split(ctx context.Context, name string, n int) (left, right int, err error) {
	if n < 0 {
		return 0, 0, &groundtruth.ErrConfigValue{Field: "split num", Value: n, Reason: "must not be negative"}
	}

	records, err := t.reader.ReadRecords(ctx, name)
	if err != nil {
		return 0, 0, err
	}

	cut := min(n, len(records))
	l, r := records[:cut], records[cut:]
	if l == nil {
		l = []dataset.Record{}
	}
	if r == nil {
		r = []dataset.Record{}
	}

	if err := t.writer.WriteRecords(ctx, name+LeftSuffix, l); err != nil {
		return 0, 0, fmt.Errorf("split %s: %w", name, err)
	}
	if err := t.writer.WriteRecords(ctx, name+RightSuffix, r); err != nil {
		return 0, 0, fmt.Errorf("split %s: %w", name, err)
	}

	t.opts.logger.InfoContext(ctx, "dataset split", "file", name, "left", len(l), "right", len(r))
	return len(l), len(r), nil
}
