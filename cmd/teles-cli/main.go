// Command teles-cli is an interactive shell for a Teles server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pior/teles"
	"github.com/pior/teles/promexporter"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(cfg.LogLevel).
		With().Timestamp().Logger()

	client, err := teles.NewClient(cfg.Server, teles.Config{
		Timeout:  cfg.Timeout,
		Attempts: cfg.Attempts,
		Logger:   &logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, client, logger)
	}

	editor := newLineEditor()
	defer editor.close()

	if editor.interactive() {
		fmt.Println("Teles CLI Tool")
		fmt.Println("==============")
		fmt.Printf("Server: %s. Type 'help' for available commands.\n", client.Connection().Addr())
		fmt.Println()
	}

	r := &repl{client: client, out: os.Stdout}
	for {
		line, err := editor.getLine(r.prompt())
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("Error reading input: %v\n", err)
			break
		}

		if !r.exec(context.Background(), line) {
			return
		}
	}
}

func serveMetrics(addr string, client *teles.Client, logger zerolog.Logger) {
	exporter := promexporter.NewExporter(client.Connection())

	mux := http.NewServeMux()
	mux.Handle("/metrics", exporter.Handler())

	logger.Info().Str("addr", addr).Msg("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("Metrics server stopped")
	}
}
