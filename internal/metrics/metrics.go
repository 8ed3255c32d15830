// Package metrics provides Prometheus metrics for the classification service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsclassifier/internal/costtracker"
)

const namespace = "newsclassifier"

// Metrics owns a private registry so several instances (tests, one per App)
// never collide on registration.
type Metrics struct {
	Registry *prometheus.Registry

	// RequestsTotal counts HTTP requests by method, route and status.
	RequestsTotal *prometheus.CounterVec
	// RequestDuration measures HTTP request latency by route.
	RequestDuration *prometheus.HistogramVec
	// PredictionsTotal counts successful classifications by top label.
	PredictionsTotal *prometheus.CounterVec
	// ValidationFailures counts /predict bodies rejected with 422.
	ValidationFailures prometheus.Counter
	// ClassifierErrors counts failed classifications by reason.
	ClassifierErrors *prometheus.CounterVec
	// ClassifyDuration measures time spent inside the classifier.
	ClassifyDuration prometheus.Histogram
	// LLMCostUSD accumulates model usage cost by operation.
	LLMCostUSD *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		PredictionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Total number of successful predictions by label",
			},
			[]string{"label"},
		),
		ValidationFailures: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Total number of rejected predict requests",
			},
		),
		ClassifierErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifier_errors_total",
				Help:      "Total number of failed classifications",
			},
			[]string{"reason"},
		),
		ClassifyDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "classify_duration_seconds",
				Help:      "Duration of classifier calls in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 10},
			},
		),
		LLMCostUSD: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_cost_usd_total",
				Help:      "Accumulated model usage cost in USD",
			},
			[]string{"operation"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// RecordPrediction records a successful classification.
func (m *Metrics) RecordPrediction(label string, seconds float64) {
	m.PredictionsTotal.WithLabelValues(label).Inc()
	m.ClassifyDuration.Observe(seconds)
}

// RecordClassifierError records a failed classification.
func (m *Metrics) RecordClassifierError(reason string) {
	m.ClassifierErrors.WithLabelValues(reason).Inc()
}

// RecordCost is a costtracker.Observer.
func (m *Metrics) RecordCost(event costtracker.CostEvent) {
	m.LLMCostUSD.WithLabelValues(event.Operation).Add(event.AmountUSD)
}
