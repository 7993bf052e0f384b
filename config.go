package groundtruth

import (
	"fmt"
	"math"
	"runtime"

	"github.com/hupe1980/groundtruth/dataset"
	"github.com/hupe1980/groundtruth/distance"
	"github.com/hupe1980/groundtruth/internal/scoring"
)

const (
	// DefaultK is the default number of neighbors kept per query.
	DefaultK = 100

	// DefaultFilterVectorIDRatio is the default sampling probability.
	DefaultFilterVectorIDRatio = 0.1

	// DefaultTrainPrefix selects candidate shards by name.
	DefaultTrainPrefix = "train"

	// OutputSuffix is appended to the query file name to form the default
	// output name.
	OutputSuffix = ".neighbor"
)

// Config describes one neighbor generation run.
type Config struct {
	// Dataset is the dataset name or path. The corpus kind, and with it the
	// id field, is derived from it by substring.
	Dataset string

	// QueryFile names the query blob in the store.
	QueryFile string

	// Dimension is the expected embedding length of every record.
	Dimension int

	// K is the number of neighbors kept per query.
	K int

	// Concurrency is the number of scoring workers.
	Concurrency int

	// HighWater bounds the number of pending scoring tasks. Zero selects the
	// default of 1000.
	HighWater int

	// FilterField is a comma separated list of field:type:value:op tuples.
	FilterField string

	// EnableFilterVectorIDs turns on candidate sampling.
	EnableFilterVectorIDs bool

	// FilterVectorIDRatio is the sampling probability in [0, 1].
	FilterVectorIDRatio float64

	// FilterVectorIDNegation keeps a query's own neighbor ids out of its
	// filter_vector_ids.
	FilterVectorIDNegation bool

	// TrainPrefix selects candidate shards by name prefix.
	TrainPrefix string

	// Metric names the distance metric. Only squared L2 is supported.
	Metric string
}

// DefaultConfig returns a Config with the defaults of the command line tool.
// Dataset, QueryFile and Dimension still need to be set.
func DefaultConfig() Config {
	return Config{
		K:                   DefaultK,
		Concurrency:         runtime.NumCPU(),
		HighWater:           scoring.DefaultHighWater,
		FilterVectorIDRatio: DefaultFilterVectorIDRatio,
		TrainPrefix:         DefaultTrainPrefix,
	}
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig or
// ErrUnknownDataset.
func (c Config) Validate() error {
	if dataset.KindFromName(c.Dataset) == dataset.KindUnknown {
		return fmt.Errorf("%w: %q", ErrUnknownDataset, c.Dataset)
	}
	if c.QueryFile == "" {
		return &ErrConfigValue{Field: "query file", Value: `""`, Reason: "must not be empty"}
	}
	if c.Dimension <= 0 {
		return &ErrConfigValue{Field: "dimension", Value: c.Dimension, Reason: "must be positive"}
	}
	if c.K < 0 {
		return &ErrConfigValue{Field: "k", Value: c.K, Reason: "must not be negative"}
	}
	if c.Concurrency <= 0 {
		return &ErrConfigValue{Field: "concurrency", Value: c.Concurrency, Reason: "must be positive"}
	}
	if c.HighWater < 0 {
		return &ErrConfigValue{Field: "high water", Value: c.HighWater, Reason: "must not be negative"}
	}
	if c.FilterVectorIDRatio < 0 || c.FilterVectorIDRatio > 1 || math.IsNaN(c.FilterVectorIDRatio) {
		return &ErrConfigValue{Field: "filter vector id ratio", Value: c.FilterVectorIDRatio, Reason: "must be within [0, 1]"}
	}
	if _, err := distance.ParseMetric(c.Metric); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
