package teles

import (
	"context"
	"time"

	"github.com/jackc/puddle/v2"
)

// PoolConfig holds configuration for a Pool.
type PoolConfig struct {
	Config

	// MaxSize is the maximum number of clients, and so of connections.
	// Zero means 4.
	MaxSize int32
}

// Pool hands out Clients to concurrent callers. Each Client owns its own
// Connection, so requests from different goroutines run in parallel instead
// of queuing on one socket.
type Pool struct {
	addr string
	pool *puddle.Pool[*Client]
}

// PoolStats contains statistics about a pool.
type PoolStats struct {
	TotalConns      int32         // Clients in the pool (acquired + idle)
	IdleConns       int32         // Clients available
	ActiveConns     int32         // Clients currently in use
	AcquireCount    int64         // Total successful acquires
	AcquireDuration time.Duration // Total time spent acquiring
	EmptyAcquires   int64         // Acquires that had to wait or construct
	CanceledAcquire int64         // Acquires canceled by their context
}

// NewPool creates a pool of clients for addr.
func NewPool(addr string, config PoolConfig) (*Pool, error) {
	if _, err := ParseEndpoint(addr); err != nil {
		return nil, err
	}

	maxSize := config.MaxSize
	if maxSize <= 0 {
		maxSize = 4
	}

	pool, err := puddle.NewPool(&puddle.Config[*Client]{
		Constructor: func(ctx context.Context) (*Client, error) {
			return NewClient(addr, config.Config)
		},
		Destructor: func(c *Client) {
			_ = c.Close()
		},
		MaxSize: maxSize,
	})
	if err != nil {
		return nil, err
	}

	return &Pool{addr: addr, pool: pool}, nil
}

// With runs fn with a client taken from the pool.
//
// The client is returned to the pool afterwards, unless fn failed with an
// error that leaves its connection unusable, in which case the client is
// destroyed.
func (p *Pool) With(ctx context.Context, fn func(c *Client) error) error {
	res, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}

	err = fn(res.Value())
	if err != nil && connectionBroken(err) {
		res.Destroy()
	} else {
		res.Release()
	}
	return err
}

// Stats returns a snapshot of pool statistics.
func (p *Pool) Stats() PoolStats {
	s := p.pool.Stat()
	return PoolStats{
		TotalConns:      s.TotalResources(),
		IdleConns:       s.IdleResources(),
		ActiveConns:     s.AcquiredResources(),
		AcquireCount:    s.AcquireCount(),
		AcquireDuration: s.AcquireDuration(),
		EmptyAcquires:   s.EmptyAcquireCount(),
		CanceledAcquire: s.CanceledAcquireCount(),
	}
}

// Close destroys all idle clients and waits for acquired ones to be
// released.
func (p *Pool) Close() {
	p.pool.Close()
}
