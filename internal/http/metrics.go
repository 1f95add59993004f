package http

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the collectors of the service, registered on their own registry.
type Metrics struct {
	ResolutionsTotal *prometheus.CounterVec
	ResolutionTime   *prometheus.HistogramVec
	TracksReturned   prometheus.Histogram
	RequestsTotal    *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	metrics := &Metrics{
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracklister_resolutions_total",
				Help: "Total number of playlist resolutions",
			},
			[]string{"provider", "outcome"},
		),
		ResolutionTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tracklister_resolution_duration_seconds",
				Help:    "Time spent resolving playlist links",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		TracksReturned: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tracklister_tracks_returned",
				Help:    "Number of tracks returned by successful resolutions",
				Buckets: []float64{1, 10, 25, 50, 100, 250, 500, 1000, 5000},
			},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracklister_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
		registry: prometheus.NewRegistry(),
	}

	metrics.registry.MustRegister(
		metrics.ResolutionsTotal,
		metrics.ResolutionTime,
		metrics.TracksReturned,
		metrics.RequestsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return metrics
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveResolution records the outcome of one resolution.
func (m *Metrics) ObserveResolution(provider, outcome string, duration time.Duration, tracks int) {
	m.ResolutionsTotal.WithLabelValues(provider, outcome).Inc()
	m.ResolutionTime.WithLabelValues(provider).Observe(duration.Seconds())
	if tracks > 0 {
		m.TracksReturned.Observe(float64(tracks))
	}
}

// RecordRequest counts one served HTTP request.
func (m *Metrics) RecordRequest(route string, status int) {
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
