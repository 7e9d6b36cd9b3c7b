package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ryan-gang/mail-blast/internal/batch"
)

type Metrics struct {
	SendsCounter   *prometheus.CounterVec
	BatchesCounter *prometheus.CounterVec
	LastBatchGauge prometheus.Gauge
	PendingGauge   prometheus.Gauge
	registry       *prometheus.Registry
}

// NewMetrics registers the counters on a private registry so several
// instances can coexist in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		SendsCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailblast_sends_total",
				Help: "Total number of send attempts.",
			},
			[]string{"transport", "outcome", "class"},
		),
		BatchesCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailblast_batches_total",
				Help: "Total number of batches by terminal state.",
			},
			[]string{"state"},
		),
		LastBatchGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailblast_last_batch_timestamp_seconds",
				Help: "Unix time the last batch finished.",
			},
		),
		PendingGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailblast_pending_recipients",
				Help: "Recipients not yet sent the current campaign after the last batch.",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.SendsCounter, m.BatchesCounter, m.LastBatchGauge, m.PendingGauge)
	return m
}

// ObserveBatch counts every outcome of result and its terminal state.
// pending is the number of recipients still owed the campaign.
func (m *Metrics) ObserveBatch(transport string, result batch.Result, pending int) {
	for _, o := range result.Outcomes {
		outcome := "sent"
		class := "none"
		if !o.Sent {
			outcome = "failed"
			class = o.Class.String()
		}
		m.SendsCounter.WithLabelValues(transport, outcome, class).Inc()
	}
	m.BatchesCounter.WithLabelValues(result.State().String()).Inc()
	m.LastBatchGauge.SetToCurrentTime()
	m.PendingGauge.Set(float64(pending))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
