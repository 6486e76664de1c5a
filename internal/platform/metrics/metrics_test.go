package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_QuoteResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.QuoteResult("generated", "")
	r.QuoteResult("fallback", "generate")
	r.QuoteResult("fallback", "generate")

	assert.InDelta(t, 1, testutil.ToFloat64(r.quoteResults.WithLabelValues("generated", "")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.quoteResults.WithLabelValues("fallback", "generate")), 0)
}

func TestRecorder_SpeechResult(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.SpeechResult("browser")

	assert.InDelta(t, 1, testutil.ToFloat64(r.speechResults.WithLabelValues("browser")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(r.speechResults.WithLabelValues("audio")), 0)
}

func TestRecorder_StageDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.StageDuration("generate", 20*time.Millisecond, nil)
	r.StageDuration("parse", time.Millisecond, errors.New("bad json"))

	count, err := testutil.GatherAndCount(reg, "quote_reader_pipeline_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.QuoteResult("generated", "")
		r.SpeechResult("audio")
		r.StageDuration("parse", time.Second, nil)
	})
}
