// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors so handlers take one dependency instead
// of package-level globals.
type Metrics struct {
	registry *prometheus.Registry

	PageHits   prometheus.Counter
	PageMisses prometheus.Counter
	PageErrors prometheus.Counter

	MoveRequests *prometheus.CounterVec

	RenderDuration prometheus.Histogram
}

// Move outcome label values.
const (
	OutcomeMoved    = "moved"
	OutcomeTrashed  = "trashed"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// New creates a Metrics with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PageHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "drivewiki",
			Subsystem: "pagecache",
			Name:      "hits_total",
			Help:      "Page requests served from the cache.",
		}),
		PageMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "drivewiki",
			Subsystem: "pagecache",
			Name:      "misses_total",
			Help:      "Page requests that required a fresh render.",
		}),
		PageErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "drivewiki",
			Subsystem: "pagecache",
			Name:      "errors_total",
			Help:      "Page requests that failed to produce content.",
		}),
		MoveRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drivewiki",
			Subsystem: "mover",
			Name:      "requests_total",
			Help:      "Move requests by outcome.",
		}, []string{"outcome"}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "drivewiki",
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Time spent exporting and caching a document.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
