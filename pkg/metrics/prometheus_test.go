package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordPrediction("predict", "Onion")
	r.RecordPrediction("predict", "Onion")
	r.RecordError("prediction")
	r.RecordLastPrice("Onion", "Pune", 1234.5)
	r.RecordLatency("analyze", 0.02)

	if got := testutil.ToFloat64(r.predictions.WithLabelValues("predict", "Onion")); got != 2 {
		t.Errorf("predictions = %v", got)
	}
	if got := testutil.ToFloat64(r.errorsTotal.WithLabelValues("prediction")); got != 1 {
		t.Errorf("errors = %v", got)
	}
	if got := testutil.ToFloat64(r.lastPrice.WithLabelValues("Onion", "Pune")); got != 1234.5 {
		t.Errorf("last price = %v", got)
	}
	if n := testutil.CollectAndCount(r.latency); n != 1 {
		t.Errorf("latency series = %d", n)
	}
}
