package testutils

import (
	"context"
	"errors"
	"net"
	"sync"
)

// DialResult is one scripted outcome of ScriptedDialer.DialContext.
type DialResult struct {
	Conn net.Conn
	Err  error
}

// ScriptedDialer hands out pre-built connections in order and counts calls.
// Dialing past the end of the script fails.
type ScriptedDialer struct {
	mu      sync.Mutex
	results []DialResult
	calls   int
}

// NewScriptedDialer returns a dialer serving the given connections in order.
func NewScriptedDialer(conns ...net.Conn) *ScriptedDialer {
	d := &ScriptedDialer{}
	for _, c := range conns {
		d.results = append(d.results, DialResult{Conn: c})
	}
	return d
}

// Then appends a scripted result.
func (d *ScriptedDialer) Then(r DialResult) *ScriptedDialer {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = append(d.results, r)
	return d
}

func (d *ScriptedDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls++
	if len(d.results) == 0 {
		return nil, errors.New("testutils: dial script exhausted")
	}
	r := d.results[0]
	d.results = d.results[1:]
	return r.Conn, r.Err
}

// Calls returns the number of DialContext calls.
func (d *ScriptedDialer) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}
