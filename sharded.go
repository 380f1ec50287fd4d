package teles

import (
	"context"
	"errors"
	"sort"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/pior/teles/internal"
)

// ShardedClient spreads spaces over several independent Teles servers.
// A space lives on the server chosen by hashing its name, so every
// operation on a space goes to a single server.
type ShardedClient struct {
	addrs   []string
	clients []*Client
}

var _ Querier = (*ShardedClient)(nil)

// NewShardedClient creates one client per address. Addresses are in the
// "host" or "host:port" form accepted by NewClient. Their order is part of
// the routing: reordering them moves spaces between servers.
func NewShardedClient(addrs []string, config Config) (*ShardedClient, error) {
	if len(addrs) == 0 {
		return nil, errors.New("teles: no servers provided")
	}

	s := &ShardedClient{
		addrs:   make([]string, 0, len(addrs)),
		clients: make([]*Client, 0, len(addrs)),
	}
	for _, addr := range addrs {
		c, err := NewClient(addr, config)
		if err != nil {
			return nil, err
		}
		s.addrs = append(s.addrs, c.conn.Addr())
		s.clients = append(s.clients, c)
	}
	return s, nil
}

// shard returns the index of the server owning a space.
func (s *ShardedClient) shard(space string) int {
	return internal.JumpHash(xxh3.HashString(space), len(s.clients))
}

// ServerFor returns the address of the server owning a space.
func (s *ShardedClient) ServerFor(space string) string {
	return s.addrs[s.shard(space)]
}

// Space returns a handle on a space, bound to the server owning it.
func (s *ShardedClient) Space(name string) *Space {
	return s.clients[s.shard(name)].Space(name)
}

// CreateSpace creates a space on the server owning it.
func (s *ShardedClient) CreateSpace(ctx context.Context, name string) (*Space, error) {
	return s.clients[s.shard(name)].CreateSpace(ctx, name)
}

// DeleteSpace deletes a space from the server owning it.
func (s *ShardedClient) DeleteSpace(ctx context.Context, name string) (bool, error) {
	return s.clients[s.shard(name)].DeleteSpace(ctx, name)
}

// ListSpaces asks every server for its spaces concurrently and returns the
// sorted union. Any server failing fails the whole call.
func (s *ShardedClient) ListSpaces(ctx context.Context) ([]string, error) {
	results := make([][]string, len(s.clients))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range s.clients {
		g.Go(func() error {
			spaces, err := c.ListSpaces(ctx)
			if err != nil {
				return err
			}
			results[i] = spaces
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := []string{}
	for _, spaces := range results {
		merged = append(merged, spaces...)
	}
	sort.Strings(merged)
	return merged, nil
}

// Clients returns the per-server clients, in address order.
func (s *ShardedClient) Clients() []*Client {
	return append([]*Client(nil), s.clients...)
}

// Close closes every connection.
func (s *ShardedClient) Close() error {
	var errs []error
	for _, c := range s.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
