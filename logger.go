package groundtruth

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with generator-specific context.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithDataset adds the dataset name.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{Logger: l.Logger.With("dataset", name)}
}

// WithShard adds the shard name.
func (l *Logger) WithShard(name string) *Logger {
	return &Logger{Logger: l.Logger.With("shard", name)}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{Logger: l.Logger.With("k", k)}
}

// LogQueries logs the loaded query file.
func (l *Logger) LogQueries(ctx context.Context, file string, count, dim int) {
	l.InfoContext(ctx, "queries loaded", "file", file, "count", count, "dim", dim)
}

// LogShard logs a processed shard.
func (l *Logger) LogShard(ctx context.Context, shard string, records int, duration time.Duration) {
	l.DebugContext(ctx, "shard processed", "shard", shard, "records", records, "duration_ms", duration.Milliseconds())
}

// LogSkippedShard logs a shard that could not be parsed.
func (l *Logger) LogSkippedShard(ctx context.Context, shard string, err error) {
	l.ErrorContext(ctx, "shard skipped", "shard", shard, "error", err)
}

// LogDroppedFilters warns about filter tuples that were ignored.
func (l *Logger) LogDroppedFilters(ctx context.Context, dropped []string) {
	if len(dropped) == 0 {
		return
	}
	l.WarnContext(ctx, "filter tuples ignored", "tuples", dropped)
}

// LogSummary logs the end-of-run counters.
func (l *Logger) LogSummary(ctx context.Context, s *Summary) {
	l.InfoContext(ctx, "neighbor generation finished",
		"total", s.Total,
		"excluded", s.Excluded,
		"exclusion_ratio", s.ExclusionRatio(),
		"filter_vector_ids", s.FilterIDs,
		"shards", s.Shards,
		"skipped_shards", s.SkippedShards,
		"output", s.Output,
		"duration_ms", s.Duration.Milliseconds(),
	)
}
