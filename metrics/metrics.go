// Package metrics exposes Prometheus instrumentation for the spend-limit
// engine: evaluation counts by category and outcome, approval verdicts,
// and evaluation latency. The collector owns its registry so tests can
// create isolated instances.
package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry           *prometheus.Registry
	limitChecks        *prometheus.CounterVec
	approvals          *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	logger             *slog.Logger
}

func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		limitChecks: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "spend_limit_checks_total",
			Help: "Spend-limit checks by category and outcome",
		}, []string{"category", "outcome"}),
		approvals: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "payment_approvals_total",
			Help: "Payment approval verdicts by outcome",
		}, []string{"outcome"}),
		evaluationDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "payment_evaluation_duration_seconds",
			Help:    "Time taken to evaluate a payment end to end",
			Buckets: prometheus.DefBuckets,
		}),
		logger: logger,
	}
}

func outcome(success bool) string {
	if success {
		return "pass"
	}
	return "breach"
}

// RecordCheck counts a single-category check.
func (c *Collector) RecordCheck(category string, success bool) {
	c.limitChecks.WithLabelValues(category, outcome(success)).Inc()
}

// RecordApproval counts a full approval run and its latency.
func (c *Collector) RecordApproval(duration time.Duration, success bool) {
	verdict := "denied"
	if success {
		verdict = "approved"
	}
	c.approvals.WithLabelValues(verdict).Inc()
	c.evaluationDuration.Observe(duration.Seconds())
}

// Handler serves the collector's registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
