// Package config loads command line configuration from a YAML file,
// GT_* environment variables and command flags, in increasing precedence.
package config

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/groundtruth"
	"github.com/hupe1980/groundtruth/resource"
)

// EnvPrefix prefixes every environment override, e.g. GT_NEIGHBOR_K.
const EnvPrefix = "GT"

// Config holds all command configuration.
type Config struct {
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Neighbor  NeighborConfig  `mapstructure:"neighbor"`
	Tools     ToolsConfig     `mapstructure:"tools"`
	Resources ResourcesConfig `mapstructure:"resources"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type DatasetConfig struct {
	// Path is the dataset name or directory. It selects the corpus kind and,
	// for local storage, the store root.
	Path      string `mapstructure:"path"`
	QueryFile string `mapstructure:"query_file"`
	Dimension int    `mapstructure:"dimension"`
}

type NeighborConfig struct {
	K                      int     `mapstructure:"k"`
	Concurrency            int     `mapstructure:"concurrency"`
	HighWater              int     `mapstructure:"high_water"`
	FilterField            string  `mapstructure:"filter_field"`
	EnableFilterVectorID   bool    `mapstructure:"enable_filter_vector_id"`
	FilterVectorIDRatio    float64 `mapstructure:"filter_vector_id_ratio"`
	FilterVectorIDNegation bool    `mapstructure:"filter_vector_id_negation"`
	TrainPrefix            string  `mapstructure:"train_prefix"`
	Metric                 string  `mapstructure:"metric"`
	// Seed makes sampling reproducible. Zero means random.
	Seed   uint64 `mapstructure:"seed"`
	Output string `mapstructure:"output"`
}

type ToolsConfig struct {
	Field    string `mapstructure:"field"`
	SplitNum int    `mapstructure:"split_num"`
}

type ResourcesConfig struct {
	MemoryLimit int64 `mapstructure:"memory_limit"`
	IOLimit     int64 `mapstructure:"io_limit"`
}

type StorageConfig struct {
	// Backend is one of local, s3 or minio.
	Backend   string `mapstructure:"backend"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Secure    bool   `mapstructure:"secure"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	// Addr enables the Prometheus endpoint when set, e.g. ":9090".
	Addr string `mapstructure:"addr"`
}

// flagKeys maps command flags to configuration keys.
var flagKeys = map[string]string{
	"dataset":                   "dataset.path",
	"query-file":                "dataset.query_file",
	"dimension":                 "dataset.dimension",
	"nearest-neighbor-num":      "neighbor.k",
	"concurrency":               "neighbor.concurrency",
	"high-water":                "neighbor.high_water",
	"filter-field":              "neighbor.filter_field",
	"enable-filter-vector-id":   "neighbor.enable_filter_vector_id",
	"filter-vector-id-ratio":    "neighbor.filter_vector_id_ratio",
	"filter-vector-id-negation": "neighbor.filter_vector_id_negation",
	"train-prefix":              "neighbor.train_prefix",
	"metric":                    "neighbor.metric",
	"seed":                      "neighbor.seed",
	"output":                    "neighbor.output",
	"field":                     "tools.field",
	"split-num":                 "tools.split_num",
	"memory-limit":              "resources.memory_limit",
	"io-limit":                  "resources.io_limit",
	"storage":                   "storage.backend",
	"bucket":                    "storage.bucket",
	"prefix":                    "storage.prefix",
	"region":                    "storage.region",
	"endpoint":                  "storage.endpoint",
	"log-level":                 "log.level",
	"log-format":                "log.format",
	"metrics-addr":              "metrics.addr",
}

func setDefaults(v *viper.Viper) {
	def := groundtruth.DefaultConfig()

	v.SetDefault("dataset.path", "")
	v.SetDefault("dataset.query_file", "")
	v.SetDefault("dataset.dimension", 0)
	v.SetDefault("neighbor.k", def.K)
	v.SetDefault("neighbor.concurrency", runtime.NumCPU())
	v.SetDefault("neighbor.high_water", def.HighWater)
	v.SetDefault("neighbor.filter_field", "")
	v.SetDefault("neighbor.enable_filter_vector_id", false)
	v.SetDefault("neighbor.filter_vector_id_ratio", def.FilterVectorIDRatio)
	v.SetDefault("neighbor.filter_vector_id_negation", false)
	v.SetDefault("neighbor.train_prefix", def.TrainPrefix)
	v.SetDefault("neighbor.metric", "l2")
	v.SetDefault("neighbor.seed", 0)
	v.SetDefault("neighbor.output", "")
	v.SetDefault("tools.field", "")
	v.SetDefault("tools.split_num", 1000)
	v.SetDefault("resources.memory_limit", 0)
	v.SetDefault("resources.io_limit", 0)
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.secure", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.addr", "")
}

// Load reads configuration from path (optional), the environment and flags.
// Flags that were not set on the command line do not override other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration for suspicious values and returns warnings.
// Hard errors are reported by groundtruth.New.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Neighbor.Concurrency > 4*runtime.NumCPU() {
		warnings = append(warnings, fmt.Sprintf("concurrency %d exceeds four workers per CPU", c.Neighbor.Concurrency))
	}
	if c.Neighbor.FilterVectorIDNegation && !c.Neighbor.EnableFilterVectorID {
		warnings = append(warnings, "filter_vector_id_negation has no effect without enable_filter_vector_id")
	}
	if c.Neighbor.Seed != 0 && !c.Neighbor.EnableFilterVectorID {
		warnings = append(warnings, "seed has no effect without enable_filter_vector_id")
	}
	if c.Storage.Backend != "local" && c.Storage.Bucket == "" {
		warnings = append(warnings, fmt.Sprintf("storage backend %q is configured but bucket is empty", c.Storage.Backend))
	}
	if c.Resources.MemoryLimit > 0 && c.Resources.MemoryLimit < int64(c.Dataset.Dimension)*4 {
		warnings = append(warnings, fmt.Sprintf("memory limit %d is smaller than one embedding", c.Resources.MemoryLimit))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		warnings = append(warnings, err.Error())
	}

	return warnings
}

// GeneratorConfig maps the configuration to a generator run.
func (c *Config) GeneratorConfig() groundtruth.Config {
	return groundtruth.Config{
		Dataset:                c.Dataset.Path,
		QueryFile:              c.Dataset.QueryFile,
		Dimension:              c.Dataset.Dimension,
		K:                      c.Neighbor.K,
		Concurrency:            c.Neighbor.Concurrency,
		HighWater:              c.Neighbor.HighWater,
		FilterField:            c.Neighbor.FilterField,
		EnableFilterVectorIDs:  c.Neighbor.EnableFilterVectorID,
		FilterVectorIDRatio:    c.Neighbor.FilterVectorIDRatio,
		FilterVectorIDNegation: c.Neighbor.FilterVectorIDNegation,
		TrainPrefix:            c.Neighbor.TrainPrefix,
		Metric:                 c.Neighbor.Metric,
	}
}

// ResourceConfig maps the resource limits.
func (c *Config) ResourceConfig() resource.Config {
	return resource.Config{
		MemoryLimitBytes:   c.Resources.MemoryLimit,
		MaxWorkers:         int64(c.Neighbor.Concurrency),
		IOLimitBytesPerSec: c.Resources.IOLimit,
	}
}

// Logger builds the logger described by Log. Unknown levels fall back to
// info.
func (c *Config) Logger() *groundtruth.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if strings.EqualFold(c.Log.Format, "json") {
		return groundtruth.NewJSONLogger(level)
	}
	return groundtruth.NewTextLogger(level)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
