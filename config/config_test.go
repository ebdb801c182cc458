package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeedesfandi/streamparse/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "bolt", cfg.Worker.Name)
	assert.Equal(t, 2*time.Second, cfg.Worker.FlushInterval())
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
worker:
  name: wordcount
  flush_interval: 500ms
log:
  level: debug
metrics:
  enabled: true
  port: 9191
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wordcount", cfg.Worker.Name)
	assert.Equal(t, 500*time.Millisecond, cfg.Worker.FlushInterval())
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched sections keep their defaults
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9191, cfg.Metrics.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "worker: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty worker name", func(c *Config) { c.Worker.Name = "" }, false},
		{"negative flush interval", func(c *Config) { c.Worker.FlushIntervalStr = "-1s" }, false},
		{"zero flush interval", func(c *Config) { c.Worker.FlushIntervalStr = "0s" }, true},
		{"malformed flush interval", func(c *Config) { c.Worker.FlushIntervalStr = "soon" }, false},
		{"empty flush interval falls back", func(c *Config) { c.Worker.FlushIntervalStr = "" }, true},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, false},
		{"unknown log format", func(c *Config) { c.Log.Format = "logfmt" }, false},
		{"text format", func(c *Config) { c.Log.Format = "text" }, true},
		{"metrics port out of range", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Port = 70000
		}, false},
		{"empty metrics path", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Path = ""
		}, false},
		{"bad port but metrics disabled", func(c *Config) { c.Metrics.Port = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidArgument(err))
			}
		})
	}
}
