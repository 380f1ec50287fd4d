package promexporter

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter owns a registry holding a Collector.
type Exporter struct {
	registry  *prometheus.Registry
	collector *Collector
}

// NewExporter creates an exporter with its own registry.
func NewExporter(sources ...Source) *Exporter {
	registry := prometheus.NewRegistry()
	collector := NewCollector(sources...)
	registry.MustRegister(collector)

	return &Exporter{
		registry:  registry,
		collector: collector,
	}
}

// Collector returns the collector, to add sources later.
func (e *Exporter) Collector() *Collector {
	return e.collector
}

// Registry returns the Prometheus registry
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler returns an HTTP handler for the /metrics endpoint
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
