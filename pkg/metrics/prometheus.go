package metrics

import (
	domrepo "AgriCast/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastPrice   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New registers the forecast metrics on reg. Passing nil uses the default
// registerer, which is what /metrics serves.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agricast_predictions_total",
				Help: "Predictions served by endpoint and commodity",
			},
			[]string{"endpoint", "commodity"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agricast_errors_total",
				Help: "Errors by kind",
			},
			[]string{"kind"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agricast_last_predicted_price",
				Help: "Last single-point predicted price per commodity and market",
			},
			[]string{"commodity", "market"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agricast_operation_duration_seconds",
				Help:    "Duration of forecast operations in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordPrediction(endpoint, commodity string) {
	r.predictions.WithLabelValues(endpoint, commodity).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLastPrice(commodity, market string, price float64) {
	r.lastPrice.WithLabelValues(commodity, market).Set(price)
}

func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

var _ domrepo.Metrics = (*Recorder)(nil)
