package teles

import (
	"context"
	"os"
	"testing"
	"time"

	toxiproxy "github.com/Shopify/toxiproxy/v2/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pior/teles/internal/testutils"
)

// Fault injection through a toxiproxy server. Runs only when
// TELES_TOXIPROXY_URL points at the toxiproxy API (e.g. http://localhost:8474).
// The proxy forwards to a local fake server unless TELES_TOXIPROXY_UPSTREAM
// names a real Teles server reachable from toxiproxy.

const toxiproxyListen = "127.0.0.1:22856"

func setupToxiproxy(t *testing.T) *toxiproxy.Proxy {
	t.Helper()

	apiURL := os.Getenv("TELES_TOXIPROXY_URL")
	if apiURL == "" {
		t.Skip("TELES_TOXIPROXY_URL not set")
	}

	upstream := os.Getenv("TELES_TOXIPROXY_UPSTREAM")
	if upstream == "" {
		upstream = testutils.NewServer(t, testutils.NewFakeTeles().Handle).Addr()
	}

	client := toxiproxy.NewClient(apiURL)
	if existing, err := client.Proxy("teles"); err == nil {
		_ = existing.Delete()
	}

	proxy, err := client.CreateProxy("teles", toxiproxyListen, upstream)
	require.NoError(t, err)
	t.Cleanup(func() { _ = proxy.Delete() })

	return proxy
}

func TestToxiproxy_ResetPeer(t *testing.T) {
	proxy := setupToxiproxy(t)

	client, err := NewClient(toxiproxyListen, Config{Timeout: 2 * time.Second, Attempts: 3})
	require.NoError(t, err)
	defer client.Close()
	ctx := context.Background()

	_, err = client.CreateSpace(ctx, "chaos")
	require.NoError(t, err)

	toxic, err := proxy.AddToxic("reset", "reset_peer", "downstream", 1.0, toxiproxy.Attributes{
		"timeout": 0,
	})
	require.NoError(t, err)

	_, err = client.CreateSpace(ctx, "chaos")
	assert.ErrorIs(t, err, ErrCannotContact)
	assert.Equal(t, uint64(1), client.Stats().Exhausted)

	require.NoError(t, proxy.RemoveToxic(toxic.Name))

	_, err = client.CreateSpace(ctx, "chaos")
	require.NoError(t, err)
}

func TestToxiproxy_ProxyDownAndBack(t *testing.T) {
	proxy := setupToxiproxy(t)

	client, err := NewClient(toxiproxyListen, Config{Timeout: 2 * time.Second, Attempts: 2})
	require.NoError(t, err)
	defer client.Close()
	ctx := context.Background()

	_, err = client.CreateSpace(ctx, "chaos")
	require.NoError(t, err)

	require.NoError(t, proxy.Disable())

	_, err = client.CreateSpace(ctx, "chaos")
	assert.ErrorIs(t, err, ErrCannotContact)

	require.NoError(t, proxy.Enable())

	_, err = client.CreateSpace(ctx, "chaos")
	require.NoError(t, err)
	assert.Positive(t, client.Stats().Reconnects)
}

func TestToxiproxy_Latency(t *testing.T) {
	proxy := setupToxiproxy(t)

	client, err := NewClient(toxiproxyListen, Config{Timeout: 100 * time.Millisecond})
	require.NoError(t, err)
	defer client.Close()
	ctx := context.Background()

	_, err = proxy.AddToxic("slow", "latency", "downstream", 1.0, toxiproxy.Attributes{
		"latency": 500,
	})
	require.NoError(t, err)

	// Timeouts are fatal, never retried
	_, err = client.CreateSpace(ctx, "chaos")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCannotContact)
	assert.Equal(t, uint64(0), client.Stats().Reconnects)
}
