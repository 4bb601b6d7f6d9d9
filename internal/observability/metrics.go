package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Metrics records workflow stage outcomes. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry         *prometheus.Registry
	stages           *prometheus.CounterVec
	workflowDuration *prometheus.HistogramVec
	rateLimited      prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		stages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_ideas",
			Name:      "stage_total",
			Help:      "Workflow stage executions by outcome.",
		}, []string{"stage", "outcome"}),
		workflowDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "event_ideas",
			Name:      "workflow_duration_seconds",
			Help:      "End-to-end workflow duration.",
			Buckets:   []float64{1, 5, 10, 20, 40, 60, 120, 240},
		}, []string{"outcome"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "event_ideas",
			Name:      "rate_limited_total",
			Help:      "Submissions rejected by the rate limiter.",
		}),
	}
	reg.MustRegister(m.stages, m.workflowDuration, m.rateLimited)

	return m
}

func (m *Metrics) RecordStage(stage, outcome string) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(stage, outcome).Inc()
}

func (m *Metrics) RecordWorkflow(d time.Duration, outcome string) {
	if m == nil {
		return
	}
	m.workflowDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
