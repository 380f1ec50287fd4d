package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/pior/teles"
)

type cliConfig struct {
	Server      string
	Timeout     time.Duration
	Attempts    int
	LogLevel    zerolog.Level
	MetricsAddr string // Empty disables the metrics endpoint
}

func defaultConfig() cliConfig {
	return cliConfig{
		Server:   fmt.Sprintf("localhost:%d", teles.DefaultPort),
		Timeout:  teles.DefaultTimeout,
		Attempts: teles.DefaultAttempts,
		LogLevel: zerolog.WarnLevel,
	}
}

type fileConfig struct {
	Server      string `toml:"server"`
	Timeout     string `toml:"timeout"`
	Attempts    int    `toml:"attempts"`
	LogLevel    string `toml:"log_level"`
	MetricsAddr string `toml:"metrics_addr"`
}

// loadConfigFile overlays the keys present in the TOML file at path on cfg.
func loadConfigFile(path string, cfg cliConfig) (cliConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cliConfig{}, fmt.Errorf("load config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cliConfig{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("server") {
		cfg.Server = strings.TrimSpace(raw.Server)
	}

	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return cliConfig{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	if meta.IsDefined("attempts") {
		cfg.Attempts = raw.Attempts
	}

	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return cliConfig{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = level
	}

	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	return cfg, nil
}

// parseConfig reads the command line. Values from -config are applied
// first; flags given explicitly override them.
func parseConfig(args []string, output io.Writer) (cliConfig, error) {
	defaults := defaultConfig()

	fs := flag.NewFlagSet("teles-cli", flag.ContinueOnError)
	fs.SetOutput(output)

	configPath := fs.String("config", "", "Path to a TOML config file")
	server := fs.String("server", defaults.Server, "Teles server address (host or host:port)")
	timeout := fs.Duration("timeout", defaults.Timeout, "Timeout for each dial, write and read")
	attempts := fs.Int("attempts", defaults.Attempts, "Tries per command on transient network errors")
	logLevel := fs.String("log-level", defaults.LogLevel.String(), "Log level (debug, info, warn, error)")
	metricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}
	if fs.NArg() > 0 {
		return cliConfig{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	cfg := defaults
	if *configPath != "" {
		var err error
		cfg, err = loadConfigFile(*configPath, cfg)
		if err != nil {
			return cliConfig{}, err
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.Server = *server
		case "timeout":
			cfg.Timeout = *timeout
		case "attempts":
			cfg.Attempts = *attempts
		case "log-level":
			var level zerolog.Level
			level, err = zerolog.ParseLevel(*logLevel)
			cfg.LogLevel = level
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		}
	})
	if err != nil {
		return cliConfig{}, fmt.Errorf("parse -log-level: %w", err)
	}

	if cfg.Attempts < 1 {
		return cliConfig{}, fmt.Errorf("attempts must be at least 1, got %d", cfg.Attempts)
	}
	if cfg.Timeout <= 0 {
		return cliConfig{}, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	return cfg, nil
}
