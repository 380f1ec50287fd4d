package teles

import (
	"bufio"
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/pior/teles/protocol"
)

// Connection is a single logical connection to a Teles server.
//
// The socket and its buffered reader are created lazily on first use and
// replaced together whenever a transient transport error forces a
// reconnect; a reader is never kept across sockets. A mutex serializes
// requests, so at most one request is in flight: the protocol has no request
// identifiers to match responses with.
//
// A Connection is safe for concurrent use, but concurrent callers queue
// behind each other. Use a Pool to run requests in parallel.
type Connection struct {
	endpoint Endpoint
	addr     string
	timeout  time.Duration
	attempts int
	dial     func(ctx context.Context, network, addr string) (net.Conn, error)
	logger   zerolog.Logger
	breaker  *gobreaker.CircuitBreaker[struct{}]
	stats    statsCollector

	mu       sync.Mutex
	conn     net.Conn
	reader   *bufio.Reader
	state    atomic.Int32 // ConnectionState, written with mu held
	deadline time.Time // context deadline of the request holding mu, zero if none
}

// NewConnection creates a connection to addr ("host" or "host:port").
// No socket is opened until the first request.
func NewConnection(addr string, config Config) (*Connection, error) {
	endpoint, err := ParseEndpoint(addr)
	if err != nil {
		return nil, err
	}

	config = config.withDefaults()

	c := &Connection{
		endpoint: endpoint,
		addr:     endpoint.String(),
		timeout:  config.Timeout,
		attempts: config.Attempts,
		dial:     config.dial,
	}
	c.logger = config.logger().With().Str("component", "teles").Str("addr", c.addr).Logger()

	if config.NewCircuitBreaker != nil {
		c.breaker = config.NewCircuitBreaker(c.addr)
	}

	return c, nil
}

// Endpoint returns the server endpoint.
func (c *Connection) Endpoint() Endpoint {
	return c.endpoint
}

// Addr returns the server address in host:port form.
func (c *Connection) Addr() string {
	return c.addr
}

// State returns the current lifecycle state. It does not wait for a request
// in flight.
func (c *Connection) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

func (c *Connection) setState(s ConnectionState) {
	c.state.Store(int32(s))
}

// Stats returns a snapshot of connection statistics.
func (c *Connection) Stats() ConnectionStats {
	return c.stats.snapshot()
}

// BreakerState returns the circuit breaker state, or StateClosed when no
// breaker is configured.
func (c *Connection) BreakerState() gobreaker.State {
	if c.breaker == nil {
		return gobreaker.StateClosed
	}
	return c.breaker.State()
}

// Close closes the socket, if any. The Connection stays usable: the next
// request dials again.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.drop(Unconnected)
	return err
}

// Send writes cmd, followed by a newline, to the server.
//
// Transient transport errors discard the socket and retry on a fresh one,
// up to the configured number of attempts.
func (c *Connection) Send(ctx context.Context, cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(ctx)

	return c.withRetry(ctx, "send", func() error {
		return c.write(cmd)
	})
}

// ReadLine reads one response line, without its terminator.
// Read errors are never retried: the response they belonged to is gone.
func (c *Connection) ReadLine(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(ctx)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := c.ensureConnected(ctx); err != nil {
		c.fail(err)
		return "", err
	}

	line, err := c.readLine()
	if err != nil {
		c.fail(err)
		return "", err
	}
	return line, nil
}

// SendAndReceive writes cmd and reads the single response line.
//
// The write and the read share one retry envelope: a transient error at
// either step replaces the socket and replays the whole exchange.
func (c *Connection) SendAndReceive(ctx context.Context, cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(ctx)

	return c.sendAndReceive(ctx, cmd)
}

// RequestLine sends a command answered by a single line and returns that
// line verbatim.
func (c *Connection) RequestLine(ctx context.Context, cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(ctx)

	var line string
	err := c.execute(func() error {
		var err error
		line, err = c.sendAndReceive(ctx, cmd)
		return err
	})
	return line, err
}

// RequestBlock sends a command answered by a START/END block and returns the
// lines between the sentinels.
//
// Only the write is retried. Once the write succeeded the block is read
// with no retry: a failure halfway through a block cannot be resumed without
// losing track of the framing, so it fails the request.
func (c *Connection) RequestBlock(ctx context.Context, cmd string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(ctx)

	var lines []string
	err := c.execute(func() error {
		err := c.withRetry(ctx, "send", func() error {
			return c.write(cmd)
		})
		if err != nil {
			return err
		}

		lines, err = protocol.ReadBlock(c.reader)
		if err != nil {
			err = wrapIO("read", err)
			c.fail(err)
			return err
		}
		c.stats.touch()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// execute runs fn through the circuit breaker, when one is configured.
func (c *Connection) execute(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}

	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func (c *Connection) sendAndReceive(ctx context.Context, cmd string) (string, error) {
	var line string
	err := c.withRetry(ctx, "send_and_receive", func() error {
		if err := c.write(cmd); err != nil {
			return err
		}

		var err error
		line, err = c.readLine()
		return err
	})
	return line, err
}

// withRetry runs op up to c.attempts times. Each try first makes sure a
// socket exists. A transient error discards the socket and moves on to the
// next try; any other error is returned at once. Must be called with mu held.
func (c *Connection) withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.ensureConnected(ctx)
		if err == nil {
			err = fn()
		}
		if err == nil {
			return nil
		}

		if !IsTransient(err) {
			c.fail(err)
			return err
		}

		lastErr = err
		c.stats.recordTransient()
		c.logger.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("Failed to send command to teles server")
		c.dropSocket(Reconnecting)
	}

	c.stats.recordExhausted()
	c.setState(Unconnected)
	c.logger.Error().Err(lastErr).Int("attempts", c.attempts).Msg("Failed to send command to teles server after all attempts")
	return &ConnectivityError{Addr: c.addr, Attempts: c.attempts, Err: lastErr}
}

// ensureConnected dials when there is no socket. Must be called with mu held.
func (c *Connection) ensureConnected(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	reconnect := c.State() == Reconnecting

	dialCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.dial(dialCtx, "tcp", c.addr)
	if err != nil {
		return wrapIO("dial", err)
	}

	c.stats.recordDial(reconnect)
	c.logger.Debug().Bool("reconnect", reconnect).Msg("Connected to teles server")

	c.conn = conn
	c.reader = bufio.NewReader(&deadlineReader{conn: conn, c: c})
	c.setState(Connected)
	return nil
}

func (c *Connection) write(cmd string) error {
	if err := c.conn.SetWriteDeadline(c.ioDeadline()); err != nil {
		return wrapIO("write", err)
	}

	if err := protocol.WriteCommand(c.conn, cmd); err != nil {
		return wrapIO("write", err)
	}

	c.stats.recordCommand()
	c.logger.Debug().Str("cmd", cmd).Msg("Sent command")
	return nil
}

func (c *Connection) readLine() (string, error) {
	line, err := protocol.ReadLine(c.reader)
	if err != nil {
		return "", wrapIO("read", err)
	}
	c.stats.touch()
	return line, nil
}

// begin records the request's context deadline for the socket deadlines.
// Must be called with mu held.
func (c *Connection) begin(ctx context.Context) {
	c.deadline, _ = ctx.Deadline()
}

// ioDeadline returns the deadline for the next socket operation: the
// request's context deadline when it has one, otherwise Timeout from now.
func (c *Connection) ioDeadline() time.Time {
	if !c.deadline.IsZero() {
		return c.deadline
	}
	return time.Now().Add(c.timeout)
}

// fail handles an error that ends the request without retry: the socket is
// dropped when the error leaves the stream in an unknown position.
func (c *Connection) fail(err error) {
	c.stats.recordFatal()
	if protocol.ShouldCloseConnection(err) {
		c.logger.Debug().Err(err).Msg("Discarding connection")
		c.dropSocket(Unconnected)
	}
}

// dropSocket closes and forgets the socket and its reader.
func (c *Connection) dropSocket(next ConnectionState) {
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.drop(next)
}

func (c *Connection) drop(next ConnectionState) {
	c.conn = nil
	c.reader = nil
	c.setState(next)
}

// wrapIO tags I/O errors with the operation that failed. Protocol-level
// errors pass through untouched.
func wrapIO(op string, err error) error {
	switch err.(type) {
	case *protocol.ValidationError, *protocol.FramingError:
		return err
	}
	return &ConnectionError{Op: op, Err: err}
}

// deadlineReader refreshes the read deadline before every read, so the
// timeout bounds each wait for data rather than a whole block.
type deadlineReader struct {
	conn net.Conn
	c    *Connection
}

func (r *deadlineReader) Read(p []byte) (int, error) {
	if err := r.conn.SetReadDeadline(r.c.ioDeadline()); err != nil {
		return 0, err
	}
	return r.conn.Read(p)
}
