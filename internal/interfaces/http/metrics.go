package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog/log"
)

// MetricsRegistry holds the Prometheus metrics of the API server on a private registry
type MetricsRegistry struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RateLimited      prometheus.Counter
	DiscoveryResults *prometheus.HistogramVec
	LiveSessionCount prometheus.Gauge
}

// NewMetricsRegistry creates and registers every metric
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "burgersocial_http_requests_total",
				Help: "HTTP requests by method, route template and status code",
			},
			[]string{"method", "route", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "burgersocial_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"route"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "burgersocial_http_rate_limited_total",
				Help: "Requests rejected by the per-client rate limiter",
			},
		),

		DiscoveryResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "burgersocial_discovery_results",
				Help:    "Number of restaurants returned per discovery query",
				Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50},
			},
			[]string{"source"},
		),

		LiveSessionCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "burgersocial_live_sessions",
				Help: "Open live search websocket sessions",
			},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RateLimited,
		m.DiscoveryResults,
		m.LiveSessionCount,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordRequest records one finished request
func (m *MetricsRegistry) RecordRequest(method, route string, status int, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveResults records the size of a discovery result set
func (m *MetricsRegistry) ObserveResults(source string, n int) {
	m.DiscoveryResults.WithLabelValues(source).Observe(float64(n))
}

// LiveSessions adjusts the open session gauge
func (m *MetricsRegistry) LiveSessions(delta float64) {
	m.LiveSessionCount.Add(delta)
}

// Totals sums the request counter and reads the session gauge from the registry.
func (m *MetricsRegistry) Totals() (requests, live float64) {
	families, err := m.registry.Gather()
	if err != nil {
		log.Warn().Err(err).Msg("gather metrics")
		return 0, 0
	}
	for _, mf := range families {
		switch mf.GetName() {
		case "burgersocial_http_requests_total":
			requests = sumMetric(mf)
		case "burgersocial_live_sessions":
			live = sumMetric(mf)
		}
	}
	return requests, live
}

func sumMetric(mf *dto.MetricFamily) float64 {
	total := 0.0
	for _, metric := range mf.GetMetric() {
		switch mf.GetType() {
		case dto.MetricType_COUNTER:
			total += metric.GetCounter().GetValue()
		case dto.MetricType_GAUGE:
			total += metric.GetGauge().GetValue()
		}
	}
	return total
}

// MetricsHandler returns an HTTP handler for Prometheus metrics
func (m *MetricsRegistry) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
