package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStage(t *testing.T) {
	m := New()

	m.RecordStage("enrichment", OutcomeOK)
	m.RecordStage("enrichment", OutcomeOK)
	m.RecordStage("summarization", OutcomeDegraded)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.stages.WithLabelValues("enrichment", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stages.WithLabelValues("summarization", OutcomeDegraded)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.stages.WithLabelValues("sampling", OutcomeFailed)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordStage("sampling", OutcomeFailed)
		m.RecordWorkflow(time.Second, OutcomeOK)
		m.RecordRateLimited()
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordWorkflow(3*time.Second, OutcomeOK)
	m.RecordRateLimited()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event_ideas_workflow_duration_seconds_count")
	assert.Contains(t, rec.Body.String(), "event_ideas_rate_limited_total 1")
}
