package teles

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pior/teles/internal/testutils"
)

// newBenchClient returns a client for a server answering every command
// with response.
func newBenchClient(b *testing.B, response string) *Client {
	b.Helper()

	server := testutils.NewServer(b, func(string) []string {
		return strings.Split(strings.TrimSuffix(response, "\n"), "\n")
	})

	client, err := NewClient(server.Addr(), Config{Timeout: time.Second})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { client.Close() })
	return client
}

func BenchmarkClient_CreateSpace(b *testing.B) {
	client := newBenchClient(b, "Done\n")
	ctx := context.Background()

	for b.Loop() {
		_, _ = client.CreateSpace(ctx, "cities")
	}
}

func BenchmarkSpace_Associate(b *testing.B) {
	space := newBenchClient(b, "Done\n").Space("cities")
	ctx := context.Background()

	for b.Loop() {
		_, _ = space.Associate(ctx, "montreal", 45.5017, -73.5673)
	}
}

func BenchmarkSpace_QueryNearest(b *testing.B) {
	lines := []string{"START"}
	for i := range 100 {
		lines = append(lines, fmt.Sprintf("object-%d", i))
	}
	lines = append(lines, "END")

	space := newBenchClient(b, strings.Join(lines, "\n")+"\n").Space("cities")
	ctx := context.Background()

	for b.Loop() {
		_, _ = space.QueryNearest(ctx, 45.5, -73.5, 100)
	}
}

func BenchmarkPool_Parallel(b *testing.B) {
	server := testutils.NewServer(b, testutils.NewFakeTeles().Handle)

	pool, err := NewPool(server.Addr(), PoolConfig{Config: Config{Timeout: time.Second}, MaxSize: 8})
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()

	ctx := context.Background()
	_ = pool.With(ctx, func(c *Client) error {
		_, err := c.CreateSpace(ctx, "cities")
		return err
	})

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = pool.With(ctx, func(c *Client) error {
				_, err := c.Space("cities").QueryWithin(ctx, 40, 50, -80, -70)
				return err
			})
		}
	})
}
