// Package metrics records session activity as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/tribble/pkg/domain"
)

// Collector holds the session metrics and the registry they are exposed from.
type Collector struct {
	registry *prometheus.Registry

	locationVisits    *prometheus.CounterVec
	advances          *prometheus.CounterVec
	jumps             *prometheus.CounterVec
	validationFailure *prometheus.CounterVec
	reports           *prometheus.CounterVec
	sessionsActive    prometheus.Gauge
}

// New creates a Collector registered on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		locationVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tribble_location_visits_total",
			Help: "Total number of sections and endpoints entered.",
		}, []string{"workflow", "location"}),
		advances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tribble_advances_total",
			Help: "Total number of progressions taken.",
		}, []string{"workflow"}),
		jumps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tribble_jumps_total",
			Help: "Total number of jumps back through the history.",
		}, []string{"workflow"}),
		validationFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tribble_validation_failures_total",
			Help: "Total number of advances rejected by empty required inputs.",
		}, []string{"workflow", "location"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tribble_reports_rendered_total",
			Help: "Total number of reports rendered.",
		}, []string{"workflow", "endpoint"}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tribble_sessions_active",
			Help: "Number of sessions currently stored.",
		}),
	}
	c.registry.MustRegister(c.locationVisits, c.advances, c.jumps, c.validationFailure, c.reports, c.sessionsActive)
	return c
}

// Hooks returns lifecycle hooks feeding the collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLocationEnter: func(_ context.Context, e *domain.LocationEvent) {
			c.locationVisits.WithLabelValues(e.Workflow, string(e.Location)).Inc()
		},
		OnAdvance: func(_ context.Context, e *domain.AdvanceEvent) {
			c.advances.WithLabelValues(e.Workflow).Inc()
		},
		OnJump: func(_ context.Context, e *domain.LocationEvent) {
			c.jumps.WithLabelValues(e.Workflow).Inc()
		},
		OnValidationFailed: func(_ context.Context, e *domain.ValidationEvent) {
			c.validationFailure.WithLabelValues(e.Workflow, string(e.Location)).Inc()
		},
		OnReportRendered: func(_ context.Context, e *domain.ReportEvent) {
			c.reports.WithLabelValues(e.Workflow, e.Endpoint).Inc()
		},
	}
}

// SessionCreated and SessionDeleted track the number of stored sessions.
func (c *Collector) SessionCreated() { c.sessionsActive.Inc() }

func (c *Collector) SessionDeleted() { c.sessionsActive.Dec() }

// Registry returns the registry holding the session metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
