// Package promexporter exposes Teles connection statistics as Prometheus
// metrics.
package promexporter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"

	"github.com/pior/teles"
)

// Source is anything that can report connection statistics, typically a
// *teles.Connection.
type Source interface {
	Addr() string
	State() teles.ConnectionState
	Stats() teles.ConnectionStats
	BreakerState() gobreaker.State
}

// Collector reads the statistics of its sources at scrape time.
type Collector struct {
	mu      sync.Mutex
	sources []Source

	commands        *prometheus.Desc
	dials           *prometheus.Desc
	reconnects      *prometheus.Desc
	transientErrors *prometheus.Desc
	fatalErrors     *prometheus.Desc
	exhausted       *prometheus.Desc
	state           *prometheus.Desc
	circuitState    *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector over the given sources.
func NewCollector(sources ...Source) *Collector {
	server := []string{"server"}

	return &Collector{
		sources: sources,

		commands: prometheus.NewDesc("teles_commands_total",
			"Command lines written to the server", server, nil),
		dials: prometheus.NewDesc("teles_dials_total",
			"Sockets opened", server, nil),
		reconnects: prometheus.NewDesc("teles_reconnects_total",
			"Sockets opened to replace one lost to a transient error", server, nil),
		transientErrors: prometheus.NewDesc("teles_transient_errors_total",
			"Transient transport errors", server, nil),
		fatalErrors: prometheus.NewDesc("teles_fatal_errors_total",
			"Errors returned without retry", server, nil),
		exhausted: prometheus.NewDesc("teles_exhausted_total",
			"Calls that failed after using all their attempts", server, nil),
		state: prometheus.NewDesc("teles_connection_state",
			"Connection state (0=unconnected, 1=connected, 2=reconnecting)", server, nil),
		circuitState: prometheus.NewDesc("teles_circuit_breaker_state",
			"Circuit breaker state (0=closed, 1=half-open, 2=open)", server, nil),
	}
}

// Add registers more sources.
func (c *Collector) Add(sources ...Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, sources...)
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.commands
	ch <- c.dials
	ch <- c.reconnects
	ch <- c.transientErrors
	ch <- c.fatalErrors
	ch <- c.exhausted
	ch <- c.state
	ch <- c.circuitState
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	sources := append([]Source(nil), c.sources...)
	c.mu.Unlock()

	for _, src := range sources {
		addr := src.Addr()
		s := src.Stats()

		counter := func(desc *prometheus.Desc, v uint64) {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), addr)
		}
		counter(c.commands, s.Commands)
		counter(c.dials, s.Dials)
		counter(c.reconnects, s.Reconnects)
		counter(c.transientErrors, s.TransientErrors)
		counter(c.fatalErrors, s.FatalErrors)
		counter(c.exhausted, s.Exhausted)

		ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, float64(src.State()), addr)
		ch <- prometheus.MustNewConstMetric(c.circuitState, prometheus.GaugeValue, float64(src.BreakerState()), addr)
	}
}
