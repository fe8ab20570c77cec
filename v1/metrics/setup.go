package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns an isolated Prometheus registry, the /metrics server and the
// collectors of the allocator, the registry pool and the HTTP API.
type Metrics struct {
	// Server exposes /metrics. Nil when Config.Address is empty.
	Server *http.Server

	Registry *prometheus.Registry

	placementsTotal   *prometheus.CounterVec
	placementDuration *prometheus.HistogramVec
	indexesCreated    *prometheus.CounterVec
	projectsExhausted *prometheus.CounterVec

	poolDialsTotal *prometheus.CounterVec
	poolIdle       prometheus.Gauge

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics sets up a dedicated registry whose metrics all carry the
// constant label service="<cfg.ServiceName>".
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()
	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	ns := cfg.Namespace
	m := &Metrics{Registry: registry}

	m.placementsTotal = createCounterVec(ns, "placements_total",
		"Placement requests by outcome (existing, placed, reconciled, exhausted, error).", []string{"outcome"})
	m.placementDuration = createHistogramVec(ns, "placement_duration_seconds",
		"Duration of placement requests.", []string{"outcome"}, prometheus.DefBuckets)
	m.indexesCreated = createCounterVec(ns, "indexes_created_total",
		"Indexes created by the allocator.", []string{"project"})
	m.projectsExhausted = createCounterVec(ns, "projects_exhausted_total",
		"Times a project was found without capacity during a placement.", []string{"project"})

	m.poolDialsTotal = createCounterVec(ns, "registry_pool_dials_total",
		"Registry connection attempts by result.", []string{"result"})
	m.poolIdle = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "registry_pool_idle_connections",
		Help:      "Idle registry connections.",
	})

	m.requestsTotal = createCounterVec(ns, "http_requests_total",
		"HTTP requests by route and status code.", []string{"route", "status"})
	m.requestDuration = createHistogramVec(ns, "http_request_duration_seconds",
		"Duration of HTTP requests.", []string{"route"}, prometheus.DefBuckets)

	wrapped.MustRegister(
		m.placementsTotal,
		m.placementDuration,
		m.indexesCreated,
		m.projectsExhausted,
		m.poolDialsTotal,
		m.poolIdle,
		m.requestsTotal,
		m.requestDuration,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	if cfg.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		m.Server = &http.Server{
			Addr:    cfg.Address,
			Handler: mux,
		}
	}
	return m
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}
