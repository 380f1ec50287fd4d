package teles

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

const (
	// DefaultTimeout bounds every dial, write and line read.
	DefaultTimeout = 10 * time.Second

	// DefaultAttempts is the number of tries a call gets before failing
	// with a ConnectivityError.
	DefaultAttempts = 3
)

// Config holds configuration for a connection to a Teles server.
type Config struct {
	// Timeout bounds each dial, each write and each line read.
	// Used when the context has no deadline. Zero means DefaultTimeout.
	Timeout time.Duration

	// Attempts is the number of tries a call gets when it hits transient
	// transport errors. Zero means DefaultAttempts.
	Attempts int

	// Dialer is the net.Dialer used to create new connections.
	// If nil, a dialer with TCP keep-alive enabled is used.
	Dialer *net.Dialer

	// Logger receives connection lifecycle and retry events.
	// If nil, nothing is logged.
	Logger *zerolog.Logger

	// NewCircuitBreaker creates a circuit breaker for a server.
	// Called once per connection with the server address.
	// If nil, no circuit breaker is used.
	NewCircuitBreaker func(serverAddr string) *gobreaker.CircuitBreaker[struct{}]

	// for testing purposes only
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Attempts <= 0 {
		c.Attempts = DefaultAttempts
	}
	if c.Dialer == nil {
		c.Dialer = &net.Dialer{KeepAlive: 15 * time.Second}
	}
	if c.dial == nil {
		c.dial = c.Dialer.DialContext
	}
	return c
}

func (c Config) logger() zerolog.Logger {
	if c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}
