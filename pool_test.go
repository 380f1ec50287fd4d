package teles

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pior/teles/internal/testutils"
)

func TestNewPool_InvalidAddr(t *testing.T) {
	_, err := NewPool("", PoolConfig{})
	assert.Error(t, err)
}

func TestPool_With(t *testing.T) {
	server := testutils.NewServer(t, testutils.NewFakeTeles().Handle)

	pool, err := NewPool(server.Addr(), PoolConfig{Config: Config{Timeout: time.Second}, MaxSize: 2})
	require.NoError(t, err)
	defer pool.Close()

	ctx := context.Background()

	err = pool.With(ctx, func(c *Client) error {
		_, err := c.CreateSpace(ctx, "cities")
		return err
	})
	require.NoError(t, err)

	var spaces []string
	err = pool.With(ctx, func(c *Client) error {
		var err error
		spaces, err = c.ListSpaces(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cities"}, spaces)

	stats := pool.Stats()
	assert.Equal(t, int32(1), stats.TotalConns)
	assert.Equal(t, int32(1), stats.IdleConns)
	assert.Equal(t, int32(0), stats.ActiveConns)
	assert.Equal(t, int64(2), stats.AcquireCount)
	assert.Equal(t, 1, server.Accepted())
}

func TestPool_Concurrent(t *testing.T) {
	server := testutils.NewServer(t, testutils.NewFakeTeles().Handle)

	pool, err := NewPool(server.Addr(), PoolConfig{Config: Config{Timeout: time.Second}, MaxSize: 4})
	require.NoError(t, err)
	defer pool.Close()

	ctx := context.Background()
	require.NoError(t, pool.With(ctx, func(c *Client) error {
		_, err := c.CreateSpace(ctx, "fleet")
		return err
	}))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- pool.With(ctx, func(c *Client) error {
				_, err := c.Space("fleet").Add(ctx, fmt.Sprintf("truck-%d", i))
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var objects []string
	require.NoError(t, pool.With(ctx, func(c *Client) error {
		var err error
		objects, err = c.Space("fleet").ListObjects(ctx)
		return err
	}))
	assert.Len(t, objects, 20)
	assert.LessOrEqual(t, pool.Stats().TotalConns, int32(4))
}

func TestPool_DestroysBrokenClient(t *testing.T) {
	server := testutils.NewServer(t, func(cmd string) []string { return []string{"Done"} })

	pool, err := NewPool(server.Addr(), PoolConfig{Config: Config{Timeout: time.Second}})
	require.NoError(t, err)
	defer pool.Close()

	ctx := context.Background()

	// "Done" where a block is expected desynchronizes the stream
	err = pool.With(ctx, func(c *Client) error {
		_, err := c.ListSpaces(ctx)
		return err
	})
	require.Error(t, err)
	assert.Eventually(t, func() bool {
		return pool.Stats().TotalConns == 0
	}, time.Second, 10*time.Millisecond)

	// Unrecognized replies keep the client
	err = pool.With(ctx, func(c *Client) error {
		_, err := c.Space("bar").Delete(ctx, "a")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), pool.Stats().TotalConns)
}

func TestPool_KeepsClientOnCanceledRequest(t *testing.T) {
	server := testutils.NewServer(t, testutils.NewFakeTeles().Handle)

	pool, err := NewPool(server.Addr(), PoolConfig{Config: Config{Timeout: time.Second}})
	require.NoError(t, err)
	defer pool.Close()

	ctx := context.Background()
	require.NoError(t, pool.With(ctx, func(c *Client) error {
		_, err := c.CreateSpace(ctx, "cities")
		return err
	}))

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	err = pool.With(ctx, func(c *Client) error {
		_, err := c.ListSpaces(canceled)
		return err
	})
	require.ErrorIs(t, err, context.Canceled)

	err = pool.With(ctx, func(c *Client) error {
		return fmt.Errorf("list spaces: %w", gobreaker.ErrOpenState)
	})
	require.ErrorIs(t, err, gobreaker.ErrOpenState)

	assert.Equal(t, int32(1), pool.Stats().TotalConns)

	require.NoError(t, pool.With(ctx, func(c *Client) error {
		_, err := c.ListSpaces(ctx)
		return err
	}))
	assert.Equal(t, 1, server.Accepted())
}
