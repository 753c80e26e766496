// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup outcomes.
const (
	CacheHit    = "hit"
	CacheShared = "shared"
	CacheMiss   = "miss"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	cacheRequests   *prometheus.CounterVec
	gatewayFetches  *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	commands        *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lightbridge",
				Name:      "cache_requests_total",
				Help:      "Device cache lookups by outcome.",
			},
			[]string{"result"},
		),
		gatewayFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lightbridge",
				Name:      "gateway_fetches_total",
				Help:      "Fetch-all round trips to the gateway by status.",
			},
			[]string{"status"},
		),
		gatewayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lightbridge",
				Name:      "gateway_request_duration_seconds",
				Help:      "Duration of gateway calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lightbridge",
				Name:      "commands_total",
				Help:      "Write commands by result code.",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(m.cacheRequests, m.gatewayFetches, m.gatewayDuration, m.commands)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) CacheRequest(result string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) GatewayFetch(err error, started time.Time) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.gatewayFetches.WithLabelValues(status).Inc()
	m.gatewayDuration.WithLabelValues("fetch").Observe(time.Since(started).Seconds())
}

func (m *Metrics) GatewayOperate(started time.Time) {
	if m == nil {
		return
	}
	m.gatewayDuration.WithLabelValues("operate").Observe(time.Since(started).Seconds())
}

func (m *Metrics) Command(result string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(result).Inc()
}
