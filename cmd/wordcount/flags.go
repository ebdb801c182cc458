package main

import (
	"flag"
	"os"
)

// cliConfig holds command-line configuration
type cliConfig struct {
	configPath string
}

func parseFlags() *cliConfig {
	cfg := &cliConfig{}

	flag.StringVar(&cfg.configPath, "config",
		getEnv("STREAMPARSE_CONFIG", ""),
		"Path to worker configuration file, empty for defaults (env: STREAMPARSE_CONFIG)")

	flag.Parse()
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
