// Package metrics records validation, registry and repair measurements as
// Prometheus collectors on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
)

// Ensure Metrics implements the interface.
var _ driven.Metrics = (*Metrics)(nil)

const namespace = "racg"

// Metrics holds all Prometheus collectors.
type Metrics struct {
	validationsTotal *prometheus.CounterVec
	findingsTotal    *prometheus.CounterVec
	lookupsTotal     *prometheus.CounterVec

	repairsTotal   *prometheus.CounterVec
	repairRounds   *prometheus.HistogramVec
	repairDuration *prometheus.HistogramVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Import validations by language and result",
			},
			[]string{"language", "result"},
		),
		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "findings_total",
				Help:      "Import findings by language and kind",
			},
			[]string{"language", "kind"},
		),
		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registry_lookups_total",
				Help:      "Package registry lookups by ecosystem and outcome",
			},
			[]string{"ecosystem", "outcome"},
		),
		repairsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "repairs_total",
				Help:      "Finished repair runs by language and status",
			},
			[]string{"language", "status"},
		),
		repairRounds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "repair_rounds",
				Help:      "Rounds used per repair run",
				Buckets:   []float64{1, 2, 3, 4, 6, 8},
			},
			[]string{"language"},
		),
		repairDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "repair_duration_seconds",
				Help:      "Repair run duration in seconds",
				Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"language"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP API requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP API request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.validationsTotal,
		m.findingsTotal,
		m.lookupsTotal,
		m.repairsTotal,
		m.repairRounds,
		m.repairDuration,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	)

	return m
}

// ObserveValidation records one import validation report.
func (m *Metrics) ObserveValidation(report *domain.ValidationReport) {
	if report == nil {
		return
	}
	lang := report.Language.String()
	result := "ok"
	switch {
	case report.HasMalicious():
		result = "malicious"
	case !report.OK():
		result = "flagged"
	}
	m.validationsTotal.WithLabelValues(lang, result).Inc()
	for _, f := range report.Findings {
		m.findingsTotal.WithLabelValues(lang, string(f.Kind)).Inc()
	}
}

// ObserveRegistryLookup records one registry lookup outcome.
func (m *Metrics) ObserveRegistryLookup(ecosystem, outcome string) {
	m.lookupsTotal.WithLabelValues(ecosystem, outcome).Inc()
}

// ObserveRepair records a finished repair run.
func (m *Metrics) ObserveRepair(run *domain.RepairRun) {
	if run == nil {
		return
	}
	lang := run.Language.String()
	m.repairsTotal.WithLabelValues(lang, run.Status.String()).Inc()
	m.repairRounds.WithLabelValues(lang).Observe(float64(len(run.Rounds)))
	if d := run.Duration(); d > 0 {
		m.repairDuration.WithLabelValues(lang).Observe(d.Seconds())
	}
}

// Handler returns the Prometheus scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched route.
// Unmatched paths are grouped under "unmatched" to keep label cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := strconv.Itoa(c.Writer.Status())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, route, code).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
