package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryan-gang/mail-blast/internal/batch"
	"github.com/ryan-gang/mail-blast/internal/mail"
)

func TestObserveBatch(t *testing.T) {
	m := NewMetrics()

	m.ObserveBatch("gmail", batch.Result{
		Outcomes: []mail.Outcome{
			mail.Sent("a@x.com", "1"),
			mail.Sent("b@x.com", "2"),
			mail.Failed("c@x.com", "bad", mail.ClassOther),
			mail.Failed("d@x.com", "Daily Limit Exceeded", mail.ClassQuotaExceeded),
		},
		StoppedEarly: true,
	}, 5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SendsCounter.WithLabelValues("gmail", "sent", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SendsCounter.WithLabelValues("gmail", "failed", "other")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SendsCounter.WithLabelValues("gmail", "failed", "quota_exceeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchesCounter.WithLabelValues("stopped_by_quota")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.PendingGauge))
	assert.Greater(t, testutil.ToFloat64(m.LastBatchGauge), 0.0)
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()

	a.ObserveBatch("smtp", batch.Result{}, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.BatchesCounter.WithLabelValues("completed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BatchesCounter.WithLabelValues("completed")))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveBatch("ses", batch.Result{Outcomes: []mail.Outcome{mail.Sent("a@x.com", "1")}}, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `mailblast_sends_total{class="none",outcome="sent",transport="ses"} 1`)
	assert.Contains(t, rec.Body.String(), "mailblast_batches_total")
}
