// Package main implements a demonstration single-dispatch bolt: it splits
// each inbound sentence tuple into words and emits one tuple per word,
// with the legacy all-auto behavior preset.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/saeedesfandi/streamparse/bolt"
	"github.com/saeedesfandi/streamparse/config"
	"github.com/saeedesfandi/streamparse/metric"
	"github.com/saeedesfandi/streamparse/multilang"
)

const appName = "splitsentence"

// splitSentenceBolt emits one word tuple per word in the inbound
// sentence. Anchoring and acking are handled by the engine preset.
type splitSentenceBolt struct{}

func (b *splitSentenceBolt) Process(_ context.Context, out *bolt.Collector, tup multilang.Tuple) error {
	if len(tup.Values) == 0 {
		return nil
	}
	sentence, ok := tup.Values[0].(string)
	if !ok {
		return fmt.Errorf("expected string sentence, got %T", tup.Values[0])
	}

	for _, word := range strings.Fields(sentence) {
		if err := out.Emit([]any{word}); err != nil {
			return err
		}
	}
	return nil
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

	engine, err := bolt.NewEngine(bolt.EngineDeps{
		Name:            cfg.Worker.Name,
		Bolt:            &splitSentenceBolt{},
		Config:          bolt.BasicConfig(),
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
