// Package main implements a demonstration batching bolt: it groups
// inbound word tuples by word and emits one (word, count) tuple per group
// per flush interval.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/saeedesfandi/streamparse/bolt"
	"github.com/saeedesfandi/streamparse/config"
	"github.com/saeedesfandi/streamparse/metric"
	"github.com/saeedesfandi/streamparse/multilang"
)

const appName = "wordcount"

// wordCountBolt batches tuples by their first value and emits the count
// per batch.
type wordCountBolt struct{}

func (b *wordCountBolt) GroupKey(tup multilang.Tuple) bolt.GroupKey {
	if len(tup.Values) == 0 {
		return bolt.NoGroup()
	}
	return bolt.GroupBy(fmt.Sprintf("%v", tup.Values[0]))
}

func (b *wordCountBolt) ProcessBatch(_ context.Context, out *bolt.Collector, key bolt.GroupKey, tups []multilang.Tuple) error {
	return out.Emit([]any{key.Key(), len(tups)})
}

func main() {
	if err := run(); err != nil {
		slog.Error("worker failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()

	cfg, err := loadConfig(cliCfg)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	var registry *metric.MetricsRegistry
	if cfg.Metrics.Enabled {
		registry = metric.NewMetricsRegistry()
		server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() { _ = server.Stop() }()
	}

	conn := multilang.NewConn(os.Stdin, os.Stdout)
	defer conn.Close()

	engine, err := bolt.NewBatchingEngine(bolt.BatchingEngineDeps{
		Name:            cfg.Worker.Name,
		Bolt:            &wordCountBolt{},
		Config:          bolt.BasicBatchingConfig(),
		FlushInterval:   cfg.Worker.FlushInterval(),
		Conn:            conn,
		MetricsRegistry: registry,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return engine.Run(ctx)
}

func loadConfig(cliCfg *cliConfig) (*config.Config, error) {
	if cliCfg.configPath == "" {
		cfg := config.Default()
		cfg.Worker.Name = appName
		return &cfg, nil
	}
	return config.Load(cliCfg.configPath)
}
