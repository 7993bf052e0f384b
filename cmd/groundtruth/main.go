// Command groundtruth generates exact nearest-neighbor ground truth and
// prepares benchmark datasets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/groundtruth"
	"github.com/hupe1980/groundtruth/internal/config"
	"github.com/hupe1980/groundtruth/metric"
	"github.com/hupe1980/groundtruth/resource"
	"github.com/hupe1980/groundtruth/sampling"
	"github.com/hupe1980/groundtruth/tools"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "groundtruth",
		Short:        "Exact nearest-neighbor ground truth for vector search benchmarks",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file path (YAML)")
	pf.String("dataset", "", "Dataset name or directory (wikipedia, bioasq, miracl)")
	pf.Int("concurrency", 0, "Worker count (default: number of CPUs)")
	pf.String("train-prefix", groundtruth.DefaultTrainPrefix, "Name prefix of candidate shards")
	pf.Int64("io-limit", 0, "Shard I/O limit in bytes per second (0 = unlimited)")
	pf.String("storage", "local", "Storage backend: local, s3 or minio")
	pf.String("bucket", "", "Bucket for s3 and minio storage")
	pf.String("prefix", "", "Key prefix inside the bucket")
	pf.String("region", "", "Bucket region")
	pf.String("endpoint", "", "S3-compatible endpoint (minio: host:port)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text or json")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address during the run")

	load := func(cmd *cobra.Command) (*config.Config, *groundtruth.Logger, error) {
		cfg, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return nil, nil, err
		}
		logger := cfg.Logger()
		for _, w := range cfg.Validate() {
			logger.Warn(w)
		}
		return cfg, logger, nil
	}

	rootCmd.AddCommand(
		newGenNeighborCmd(load),
		newDistributionCmd(load),
		newAddFieldCmd(load),
		newSplitCmd(load),
	)

	return rootCmd
}

type loadFunc func(cmd *cobra.Command) (*config.Config, *groundtruth.Logger, error)

func newGenNeighborCmd(load loadFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-neighbor",
		Short: "Compute the exact k nearest neighbors of every query",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}

			opts := []groundtruth.Option{
				groundtruth.WithLogger(logger),
				groundtruth.WithResources(resource.NewController(cfg.ResourceConfig())),
			}
			if cfg.Neighbor.Seed != 0 {
				opts = append(opts, groundtruth.WithSource(sampling.NewSource(cfg.Neighbor.Seed)))
			}
			if cfg.Neighbor.Output != "" {
				opts = append(opts, groundtruth.WithOutputName(cfg.Neighbor.Output))
			}

			if cfg.Metrics.Addr != "" {
				reg := prometheus.NewRegistry()
				opts = append(opts, groundtruth.WithMetricsCollector(metric.NewCollector(reg)))

				shutdown, err := metric.StartServer(cfg.Metrics.Addr, reg, logger.Logger)
				if err != nil {
					return fmt.Errorf("metrics server: %w", err)
				}
				defer func() {
					sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = shutdown(sctx)
				}()
			}

			gen, err := groundtruth.New(store, cfg.GeneratorConfig(), opts...)
			if err != nil {
				return err
			}

			summary, err := gen.Run(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "neighbor generation failed", "error", err)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "total_count: %d filter_count: %d ratio: %.2f%% filter_vector_ids: %d output: %s\n",
				summary.Total, summary.Excluded, summary.ExclusionRatio(), summary.FilterIDs, summary.Output)
			return nil
		},
	}

	f := cmd.Flags()
	f.String("query-file", "", "Query file name in the dataset store")
	f.Int("dimension", 0, "Embedding dimension")
	f.Int("nearest-neighbor-num", groundtruth.DefaultK, "Neighbors kept per query")
	f.Int("high-water", 0, "Maximum pending scoring tasks (default 1000)")
	f.String("filter-field", "", "Filter tuples field:type:value:op, comma separated")
	f.Bool("enable-filter-vector-id", false, "Emit sampled filter_vector_ids")
	f.Float64("filter-vector-id-ratio", groundtruth.DefaultFilterVectorIDRatio, "Sampling probability for filter_vector_ids")
	f.Bool("filter-vector-id-negation", false, "Keep a query's own neighbors out of its filter_vector_ids")
	f.String("metric", "l2", "Distance metric")
	f.Uint64("seed", 0, "Sampling seed (0 = random)")
	f.String("output", "", "Output name (default <query-file>.neighbor)")
	f.Int64("memory-limit", 0, "Bytes of queued embeddings (0 = unlimited)")

	return cmd
}

func newDistributionCmd(load loadFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Write the value distribution of a field to distribution.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}
			t, err := newTools(ctx, cfg, logger)
			if err != nil {
				return err
			}

			buckets, err := t.Distribution(ctx, tools.DistributionConfig{
				Dataset:     cfg.Dataset.Path,
				Field:       cfg.Tools.Field,
				TrainPrefix: cfg.Neighbor.TrainPrefix,
			})
			if err != nil {
				return err
			}

			for _, b := range buckets {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%.2f%%\n", b.Value, len(b.VectorIDs), b.Rate)
			}
			return nil
		},
	}
	cmd.Flags().String("field", "", "Record field to analyze")
	return cmd
}

func newAddFieldCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "add-field",
		Short: "Add a random filter_id to every candidate record",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}
			t, err := newTools(ctx, cfg, logger)
			if err != nil {
				return err
			}

			report, err := t.AddField(ctx, tools.AddFieldConfig{TrainPrefix: cfg.Neighbor.TrainPrefix})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "shards: %d skipped: %d records: %d\n", report.Shards, report.Skipped, report.Records)
			return nil
		},
	}
}

func newSplitCmd(load loadFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "Split a record file into <file>.left and <file>.right",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}
			t, err := newTools(ctx, cfg, logger)
			if err != nil {
				return err
			}

			left, right, err := t.Split(ctx, args[0], cfg.Tools.SplitNum)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "left: %d right: %d\n", left, right)
			return nil
		},
	}
	cmd.Flags().Int("split-num", tools.DefaultSplitNum, "Records in the left part")
	return cmd
}

func newTools(ctx context.Context, cfg *config.Config, logger *groundtruth.Logger) (*tools.Tools, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return tools.New(store,
		tools.WithLogger(logger),
		tools.WithResources(resource.NewController(cfg.ResourceConfig())),
	), nil
}
