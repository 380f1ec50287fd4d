package teles

import (
	"context"

	"github.com/pior/teles/protocol"
)

// Querier is the set of server-level operations.
type Querier interface {
	CreateSpace(ctx context.Context, name string) (*Space, error)
	DeleteSpace(ctx context.Context, name string) (bool, error)
	ListSpaces(ctx context.Context) ([]string, error)
	Space(name string) *Space
}

// Client is a Teles client over a single Connection.
type Client struct {
	conn *Connection
}

var _ Querier = (*Client)(nil)

// NewClient creates a client for addr ("host" or "host:port", port 2856 by
// default). The connection is opened on the first request.
func NewClient(addr string, config Config) (*Client, error) {
	conn, err := NewConnection(addr, config)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Connection returns the underlying connection.
func (c *Client) Connection() *Connection {
	return c.conn
}

// Stats returns a snapshot of the connection statistics.
func (c *Client) Stats() ConnectionStats {
	return c.conn.Stats()
}

// Close closes the underlying socket. Space handles obtained from this
// client stay valid; using them dials again.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Space returns a handle on a space without contacting the server.
func (c *Client) Space(name string) *Space {
	return newSpace(c.conn, name)
}

// CreateSpace creates a space and returns a handle on it.
// Creating a space that already exists succeeds and returns a handle on it.
func (c *Client) CreateSpace(ctx context.Context, name string) (*Space, error) {
	if err := protocol.ValidateName("space", name); err != nil {
		return nil, err
	}

	cmd := protocol.CreateSpace(name)
	resp, err := c.conn.RequestLine(ctx, cmd)
	if err != nil {
		return nil, err
	}

	switch protocol.ParseOutcome(resp) {
	case protocol.OutcomeDone:
		return newSpace(c.conn, name), nil
	default:
		return nil, &ProtocolError{Command: cmd, Response: resp}
	}
}

// DeleteSpace deletes a space. It returns false when the space does not
// exist, so deleting twice is harmless.
func (c *Client) DeleteSpace(ctx context.Context, name string) (bool, error) {
	if err := protocol.ValidateName("space", name); err != nil {
		return false, err
	}

	cmd := protocol.DeleteSpace(name)
	resp, err := c.conn.RequestLine(ctx, cmd)
	if err != nil {
		return false, err
	}

	switch protocol.ParseOutcome(resp) {
	case protocol.OutcomeDone:
		return true, nil
	case protocol.OutcomeSpaceMissing:
		return false, nil
	default:
		return false, &ProtocolError{Command: cmd, Response: resp}
	}
}

// ListSpaces returns the names of all spaces.
func (c *Client) ListSpaces(ctx context.Context) ([]string, error) {
	return c.conn.RequestBlock(ctx, protocol.ListSpaces())
}
