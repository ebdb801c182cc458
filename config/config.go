// Package config loads and validates worker-side runtime configuration.
// This is the worker's own configuration (logging, metrics, flush
// cadence), distinct from the topology configuration delivered by the
// orchestrator in the protocol handshake.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/saeedesfandi/streamparse/errors"
)

// Config represents the complete worker configuration
type Config struct {
	Worker  WorkerConfig  `yaml:"worker"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// WorkerConfig holds engine-level settings
type WorkerConfig struct {
	// Name identifies this worker instance in logs and metrics
	Name string `yaml:"name"`
	// FlushIntervalStr is the minimum spacing between batch flushes for
	// batching bolts, as a duration string (default: "2s"); ignored by
	// single-dispatch bolts
	FlushIntervalStr string `yaml:"flush_interval"`

	flushInterval time.Duration
}

// FlushInterval returns the parsed flush interval.
func (c *WorkerConfig) FlushInterval() time.Duration {
	return c.flushInterval
}

// LogConfig holds structured logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MetricsConfig holds the Prometheus scrape endpoint settings
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Worker: WorkerConfig{
			Name:             "bolt",
			FlushIntervalStr: "2s",
			flushInterval:    2 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// Load reads a YAML config file over the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalidArgument(err, "config", "Load", "read config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapInvalidArgument(err, "config", "Load", "parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the engines would reject
// later.
func (c *Config) Validate() error {
	if c.Worker.Name == "" {
		return errors.WrapInvalidArgument(
			fmt.Errorf("worker name must not be empty"),
			"config", "Validate", "worker validation")
	}
	if c.Worker.FlushIntervalStr == "" {
		c.Worker.flushInterval = 2 * time.Second
	} else {
		interval, err := time.ParseDuration(c.Worker.FlushIntervalStr)
		if err != nil {
			return errors.WrapInvalidArgument(err,
				"config", "Validate",
				fmt.Sprintf("invalid flush interval %q", c.Worker.FlushIntervalStr))
		}
		if interval < 0 {
			return errors.WrapInvalidArgument(errors.ErrBadInterval,
				"config", "Validate", "worker validation")
		}
		c.Worker.flushInterval = interval
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalidArgument(
			fmt.Errorf("unknown log level %q", c.Log.Level),
			"config", "Validate", "log validation")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return errors.WrapInvalidArgument(
			fmt.Errorf("unknown log format %q", c.Log.Format),
			"config", "Validate", "log validation")
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
			return errors.WrapInvalidArgument(
				fmt.Errorf("invalid metrics port %d", c.Metrics.Port),
				"config", "Validate", "metrics validation")
		}
		if c.Metrics.Path == "" {
			return errors.WrapInvalidArgument(
				fmt.Errorf("metrics path must not be empty"),
				"config", "Validate", "metrics validation")
		}
	}

	return nil
}
