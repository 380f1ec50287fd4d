package teles

import (
	"sync/atomic"
	"time"

	"github.com/pior/teles/internal/coarsetime"
)

// ConnectionState is the lifecycle state of a Connection.
type ConnectionState int32

const (
	Unconnected  ConnectionState = iota // No socket yet, or the last one was discarded
	Connected                           // A socket is open and reused across calls
	Reconnecting                        // The socket was dropped on a transient error; the next try dials again
)

// String returns a human-readable name for the connection state.
func (s ConnectionState) String() string {
	switch s {
	case Unconnected:
		return "Unconnected"
	case Connected:
		return "Connected"
	case Reconnecting:
		return "Reconnecting"
	default:
		return "Unknown"
	}
}

// ConnectionStats contains statistics about a connection.
// All fields are safe for concurrent access.
type ConnectionStats struct {
	Commands        uint64    // Command lines written successfully
	Dials           uint64    // Sockets opened
	Reconnects      uint64    // Sockets opened to replace one lost to a transient error
	TransientErrors uint64    // Transient errors seen, retried or not
	FatalErrors     uint64    // Errors returned without retry
	Exhausted       uint64    // Calls that ran out of attempts
	LastActivity    time.Time // Last successful write or read
}

// statsCollector provides internal methods for updating connection stats.
type statsCollector struct {
	commands        atomic.Uint64
	dials           atomic.Uint64
	reconnects      atomic.Uint64
	transientErrors atomic.Uint64
	fatalErrors     atomic.Uint64
	exhausted       atomic.Uint64
	lastActivity    atomic.Int64
}

func (c *statsCollector) recordCommand() {
	c.commands.Add(1)
	c.touch()
}

func (c *statsCollector) recordDial(reconnect bool) {
	c.dials.Add(1)
	if reconnect {
		c.reconnects.Add(1)
	}
}

func (c *statsCollector) recordTransient() {
	c.transientErrors.Add(1)
}

func (c *statsCollector) recordFatal() {
	c.fatalErrors.Add(1)
}

func (c *statsCollector) recordExhausted() {
	c.exhausted.Add(1)
}

func (c *statsCollector) touch() {
	c.lastActivity.Store(coarsetime.Now().UnixNano())
}

func (c *statsCollector) snapshot() ConnectionStats {
	s := ConnectionStats{
		Commands:        c.commands.Load(),
		Dials:           c.dials.Load(),
		Reconnects:      c.reconnects.Load(),
		TransientErrors: c.transientErrors.Load(),
		FatalErrors:     c.fatalErrors.Load(),
		Exhausted:       c.exhausted.Load(),
	}
	if ns := c.lastActivity.Load(); ns != 0 {
		s.LastActivity = time.Unix(0, ns)
	}
	return s
}
