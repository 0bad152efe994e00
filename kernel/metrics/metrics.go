// Package metrics exposes the kernel's internal instrumentation as
// standard prometheus client_golang collectors, registered against a
// private registry rather than the global default one. There is no HTTP
// listener here: network transport is out of scope for this kernel, so
// nothing in this package ever imports promhttp. A host process that
// wants to scrape these metrics registers Metrics.Registry() with its own
// server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the engine and its subsystems update
// during a run.
type Metrics struct {
	registry *prometheus.Registry

	TickDuration    prometheus.Histogram
	EventsAppended  *prometheus.CounterVec
	SubsystemErrors *prometheus.CounterVec
	CurrentTick     prometheus.Gauge
}

// New builds a Metrics bound to a fresh, private prometheus.Registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "thedesk_tick_duration_seconds",
			Help:    "Wall-clock time spent executing one tick, including all subsystems.",
			Buckets: prometheus.DefBuckets,
		}),
		EventsAppended: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "thedesk_events_appended_total",
			Help: "Events appended to the log, by originating subsystem.",
		}, []string{"subsystem"}),
		SubsystemErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "thedesk_subsystem_errors_total",
			Help: "Subsystem update() calls that returned an error, by subsystem.",
		}, []string{"subsystem"}),
		CurrentTick: factory.NewGauge(prometheus.GaugeOpts{
			Name: "thedesk_current_tick",
			Help: "The most recently completed tick number for the active run.",
		}),
	}
}

// Registry exposes the private registry so a host process can wire it
// into its own metrics endpoint without this package ever touching the
// network itself.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
