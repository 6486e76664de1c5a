// Package metrics holds the Prometheus collectors for quote and speech outcomes.
// They are served with the Go runtime collectors at /-/metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quote_reader"

// Recorder records business outcomes. A nil *Recorder is valid and records nothing.
type Recorder struct {
	quoteResults  *prometheus.CounterVec
	speechResults *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewRecorder registers the collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		quoteResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_results_total",
			Help:      "Quote requests by result source and fallback reason.",
		}, []string{"source", "reason"}),
		speechResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_results_total",
			Help:      "Speech requests by outcome (audio or browser).",
		}, []string{"outcome"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of quote pipeline stages.",
			Buckets:   []float64{.005, .05, .25, 1, 2.5, 5, 10, 30},
		}, []string{"stage", "status"}),
	}
}

// QuoteResult counts one finished quote request. reason is empty for generated results.
func (r *Recorder) QuoteResult(source, reason string) {
	if r == nil {
		return
	}

	r.quoteResults.WithLabelValues(source, reason).Inc()
}

// SpeechResult counts one finished speech request.
func (r *Recorder) SpeechResult(outcome string) {
	if r == nil {
		return
	}

	r.speechResults.WithLabelValues(outcome).Inc()
}

// StageDuration observes how long a pipeline stage ran.
func (r *Recorder) StageDuration(stage string, d time.Duration, err error) {
	if r == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "error"
	}

	r.stageDuration.WithLabelValues(stage, status).Observe(d.Seconds())
}
