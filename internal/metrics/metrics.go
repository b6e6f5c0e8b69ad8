// Package metrics exposes mitigation activity as Prometheus metrics.
// The Collector doubles as an event observer, so wiring it into the
// engine with OnMitigation keeps the counters current.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rasim21-maker/synapse-framework/internal/events"
	"github.com/rasim21-maker/synapse-framework/internal/types"
)

// Collector holds the engine's Prometheus metrics on a private
// registry, so multiple engines (and tests) never collide
type Collector struct {
	registry *prometheus.Registry

	actionsTotal  *prometheus.CounterVec
	throttleLevel *prometheus.GaugeVec
	healthScore   *prometheus.GaugeVec
	quarantined   prometheus.Gauge
}

// NewCollector creates and registers the mitigation metrics
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synapse_mitigation_actions_total",
				Help: "Total mitigation decisions by action kind.",
			},
			[]string{"action"},
		),

		throttleLevel: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "synapse_component_throttle_level",
				Help: "Current throttle level per component (0.0-1.0).",
			},
			[]string{"component"},
		),

		healthScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "synapse_component_health_score",
				Help: "Current health score per component (0-100).",
			},
			[]string{"component"},
		),

		quarantined: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "synapse_quarantined_components",
				Help: "Number of components currently quarantined.",
			},
		),
	}

	c.registry.MustRegister(c.actionsTotal, c.throttleLevel, c.healthScore, c.quarantined)
	return c
}

// HandleEvent is an events.Observer recording each mitigation decision
func (c *Collector) HandleEvent(evt *events.Event) error {
	c.actionsTotal.WithLabelValues(string(evt.Result.Action)).Inc()
	return nil
}

// Sync refreshes the per-component gauges from an engine snapshot
func (c *Collector) Sync(components []types.ComponentState) {
	quarantined := 0
	for _, comp := range components {
		c.throttleLevel.WithLabelValues(comp.ID).Set(comp.ThrottleLevel)
		c.healthScore.WithLabelValues(comp.ID).Set(comp.HealthScore)
		if comp.IsQuarantined {
			quarantined++
		}
	}
	c.quarantined.Set(float64(quarantined))
}

// Handler returns an HTTP handler serving this collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for test gathers
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
