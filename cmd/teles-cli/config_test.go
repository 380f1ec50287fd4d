package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "teles.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.Equal(t, "localhost:2856", cfg.Server)
}

func TestParseConfig_File(t *testing.T) {
	path := writeConfig(t, `
server = "teles.internal:9000"
timeout = "2s"
attempts = 5
log_level = "debug"
metrics_addr = ":9090"
`)

	cfg, err := parseConfig([]string{"-config", path}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, cliConfig{
		Server:      "teles.internal:9000",
		Timeout:     2 * time.Second,
		Attempts:    5,
		LogLevel:    zerolog.DebugLevel,
		MetricsAddr: ":9090",
	}, cfg)
}

func TestParseConfig_PartialFile(t *testing.T) {
	path := writeConfig(t, `attempts = 7`)

	cfg, err := parseConfig([]string{"-config", path}, io.Discard)
	require.NoError(t, err)

	want := defaultConfig()
	want.Attempts = 7
	assert.Equal(t, want, cfg)
}

func TestParseConfig_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
server = "teles.internal"
attempts = 5
log_level = "debug"
`)

	cfg, err := parseConfig([]string{"-config", path, "-server", "other:1234", "-log-level", "error", "-metrics-addr", "127.0.0.1:9100"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
	assert.Equal(t, "other:1234", cfg.Server)
	assert.Equal(t, 5, cfg.Attempts)
	assert.Equal(t, zerolog.ErrorLevel, cfg.LogLevel)
	assert.Equal(t, defaultConfig().Timeout, cfg.Timeout)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		args []string
	}{
		{name: "bad timeout", file: `timeout = "soon"`},
		{name: "bad level", file: `log_level = "loud"`},
		{name: "unknown key", file: `port = 2856`},
		{name: "invalid toml", file: `server = `},
		{name: "zero attempts", args: []string{"-attempts", "0"}},
		{name: "negative timeout", args: []string{"-timeout", "-1s"}},
		{name: "bad level flag", args: []string{"-log-level", "loud"}},
		{name: "stray argument", args: []string{"localhost"}},
		{name: "missing file", args: []string{"-config", "/nonexistent/teles.toml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.file != "" {
				args = append([]string{"-config", writeConfig(t, tt.file)}, args...)
			}

			_, err := parseConfig(args, io.Discard)
			assert.Error(t, err)
		})
	}
}
