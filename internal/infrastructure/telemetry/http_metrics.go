package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetricsNamespace prefixes every exported Prometheus series.
const HTTPMetricsNamespace = "mrq"

// HTTPMetrics holds the Prometheus series scraped from /metrics.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type HTTPMetrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	upstreamCalls   *prometheus.CounterVec
}

// NewHTTPMetrics creates the collectors on a private registry together with
// the Go runtime and process collectors.
func NewHTTPMetrics() *HTTPMetrics {
	registry := prometheus.NewRegistry()

	m := &HTTPMetrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: HTTPMetricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: HTTPMetricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   HTTPDurationBuckets,
			},
			[]string{"method", "route"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: HTTPMetricsNamespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Requests currently being served.",
			},
		),
		upstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: HTTPMetricsNamespace,
				Subsystem: "upstream",
				Name:      "calls_total",
				Help:      "Calls made to the ERP API, by endpoint and result.",
			},
			[]string{"endpoint", "result"},
		),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.inFlight,
		m.upstreamCalls,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Begin marks a request as in flight and returns the function that completes it.
func (m *HTTPMetrics) Begin() func(method, route string, status int, d time.Duration) {
	m.inFlight.Inc()
	return func(method, route string, status int, d time.Duration) {
		m.inFlight.Dec()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	}
}

// ObserveUpstream counts one ERP API call. result is "ok", "rejected" or "error".
func (m *HTTPMetrics) ObserveUpstream(endpoint, result string) {
	m.upstreamCalls.WithLabelValues(endpoint, result).Inc()
}

// Registry exposes the registry for tests and additional collectors.
func (m *HTTPMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
