package gateway

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Apurer/go-gin-microservices/internal/platform/serviceclient"
)

// Metrics holds the gateway's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	proxied  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the gateway collectors plus the Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		proxied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_proxied_requests_total",
				Help: "number of requests proxied to downstream services",
			},
			[]string{"service", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_proxy_duration_seconds",
				Help:    "time spent waiting for downstream services",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}
	m.registry.MustRegister(
		m.proxied,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) observe(service serviceclient.Name, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.proxied.WithLabelValues(string(service), statusLabel(status)).Inc()
	m.duration.WithLabelValues(string(service)).Observe(elapsed.Seconds())
}
