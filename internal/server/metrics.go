package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the projection API.
type Metrics struct {
	registry *prometheus.Registry

	Requests         *prometheus.CounterVec
	Duration         *prometheus.HistogramVec
	Panics           prometheus.Counter
	IgnoredSliders   prometheus.Counter
	BaselineStates   prometheus.Gauge
	ElectoralOutcome *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a private registry so handlers can be
// built repeatedly without colliding in the default registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingomatic_requests_total",
				Help: "Total number of API requests by endpoint and status code",
			},
			[]string{"endpoint", "status"},
		),

		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swingomatic_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"endpoint"},
		),

		Panics: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "swingomatic_projection_panics_total",
				Help: "Total number of projections that panicked and were recovered",
			},
		),

		IgnoredSliders: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "swingomatic_ignored_slider_values_total",
				Help: "Total number of slider values neutralized during sanitization",
			},
		),

		BaselineStates: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "swingomatic_baseline_states",
				Help: "Number of states in the loaded baseline",
			},
		),

		ElectoralOutcome: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swingomatic_projected_electoral_votes",
				Help:    "Projected electoral votes per candidate",
				Buckets: prometheus.LinearBuckets(0, 60, 10),
			},
			[]string{"candidate"},
		),
	}

	m.registry.MustRegister(
		m.Requests,
		m.Duration,
		m.Panics,
		m.IgnoredSliders,
		m.BaselineStates,
		m.ElectoralOutcome,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(endpoint string, status int, started time.Time) {
	m.Requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.Duration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}
