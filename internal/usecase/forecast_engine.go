package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"AgriCast/internal/domain/models"
	domrepo "AgriCast/internal/domain/repository"
	domsvc "AgriCast/internal/domain/service"
	"AgriCast/internal/services/features"
	"AgriCast/internal/services/validation"
	applogger "AgriCast/pkg/logger"
	"AgriCast/pkg/util"

	"github.com/shopspring/decimal"
)

const (
	DefaultHorizon = 5

	EndpointPredict  = "predict"
	EndpointAnalysis = "analysis"

	// OtherLabel replaces commodity and market labels that have no history.
	OtherLabel = "other"
)

// ForecastEngine answers single-point and multi-day price questions. It holds
// no per-request state; every dependency is shared read-only.
type ForecastEngine struct {
	history   domrepo.HistoricalTable
	predictor domsvc.Predictor
	noise     domsvc.NoiseSource
	validator *validation.Validator
	metrics   domrepo.Metrics
	l         *applogger.Logger
	horizon   int
}

func NewForecastEngine(
	history domrepo.HistoricalTable,
	predictor domsvc.Predictor,
	noise domsvc.NoiseSource,
	validator *validation.Validator,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	horizon int,
) *ForecastEngine {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &ForecastEngine{
		history:   history,
		predictor: predictor,
		noise:     noise,
		validator: validator,
		metrics:   metrics,
		l:         l,
		horizon:   horizon,
	}
}

// Horizon is the number of days Analyze forecasts.
func (e *ForecastEngine) Horizon() int { return e.horizon }

// Predict returns the model's price for the query's own arrival date.
func (e *ForecastEngine) Predict(ctx context.Context, q *models.PriceQuery) (*models.PredictionResult, error) {
	start := time.Now()
	defer e.observe(EndpointPredict, start)

	date, err := e.validator.ValidatePredict(q)
	if err != nil {
		return nil, e.fail(EndpointPredict, err)
	}

	rec := features.Assemble(q, date)
	prices, err := e.invoke(ctx, []models.FeatureRecord{rec})
	if err != nil {
		return nil, e.fail(EndpointPredict, err)
	}
	price := Round2(prices[0])

	commodity, market := e.labels(rec.Commodity, rec.Market)
	e.metrics.RecordPrediction(EndpointPredict, commodity)
	e.metrics.RecordLastPrice(commodity, market, price)
	return &models.PredictionResult{
		State:          rec.State,
		District:       rec.District,
		Market:         rec.Market,
		Commodity:      rec.Commodity,
		Variety:        rec.Variety,
		ArrivalDate:    rec.ArrivalDate,
		MinPrice:       rec.MinPrice,
		MaxPrice:       rec.MaxPrice,
		PredictedPrice: price,
	}, nil
}

// Analyze returns the observed arrival dates for the query's commodity and
// market together with a perturbed forecast for the following days.
func (e *ForecastEngine) Analyze(ctx context.Context, q *models.PriceQuery) (*models.Analysis, error) {
	start := time.Now()
	defer e.observe(EndpointAnalysis, start)

	date, err := e.validator.ValidateAnalysis(q)
	if err != nil {
		return nil, e.fail(EndpointAnalysis, err)
	}

	observed := e.history.Query(q.Commodity, q.Market)
	if len(observed) == 0 {
		return nil, e.fail(EndpointAnalysis, &models.NoHistoricalDataError{Commodity: q.Commodity, Market: q.Market})
	}

	rows := features.AssembleSeries(q, date, e.horizon)
	prices, err := e.invoke(ctx, rows)
	if err != nil {
		return nil, e.fail(EndpointAnalysis, err)
	}

	dates := features.SeriesDates(rows)
	series := make([]models.ForecastPoint, len(rows))
	for i, d := range dates {
		series[i] = models.ForecastPoint{
			ArrivalDate:    d,
			PredictedPrice: Round2(prices[i] + e.noise.Sample()),
		}
	}
	hist := make([]models.HistoricalPoint, len(observed))
	for i, d := range observed {
		hist[i] = models.HistoricalPoint{ArrivalDate: util.FormatDate(d)}
	}

	e.metrics.RecordPrediction(EndpointAnalysis, q.Commodity)
	return &models.Analysis{HistoricalData: hist, FuturePredictions: series}, nil
}

// invoke makes exactly one predictor call and enforces its contract.
func (e *ForecastEngine) invoke(ctx context.Context, rows []models.FeatureRecord) ([]float64, error) {
	start := time.Now()
	prices, err := e.predictor.Predict(ctx, rows)
	e.metrics.RecordLatency("predictor", time.Since(start).Seconds())
	if err != nil {
		return nil, &models.PredictionError{Err: err}
	}
	if len(prices) != len(rows) {
		return nil, &models.PredictionError{Err: fmt.Errorf("predictor returned %d values for %d rows", len(prices), len(rows))}
	}
	for i, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, &models.PredictionError{Err: fmt.Errorf("predictor returned non-finite value %v for row %d", p, i)}
		}
	}
	return prices, nil
}

func (e *ForecastEngine) fail(endpoint string, err error) error {
	kind := ErrorKind(err)
	e.metrics.RecordError(kind)
	if kind == "prediction" {
		e.l.Error("prediction failed",
			applogger.String("endpoint", endpoint),
			applogger.Error(err),
		)
	} else {
		e.l.Debug("request rejected",
			applogger.String("endpoint", endpoint),
			applogger.String("kind", kind),
			applogger.Error(err),
		)
	}
	return err
}

// labels keeps metric label values within the historical dataset so
// arbitrary request strings cannot create new series.
func (e *ForecastEngine) labels(commodity, market string) (string, string) {
	if len(e.history.Query(commodity, market)) == 0 {
		return OtherLabel, OtherLabel
	}
	return commodity, market
}

func (e *ForecastEngine) observe(op string, start time.Time) {
	e.metrics.RecordLatency(op, time.Since(start).Seconds())
}

// ErrorKind classifies a forecast error for metrics and logs.
func ErrorKind(err error) string {
	var (
		verr *models.ValidationError
		derr *models.DateFormatError
		herr *models.NoHistoricalDataError
		perr *models.PredictionError
	)
	switch {
	case errors.As(err, &verr):
		return "validation"
	case errors.As(err, &derr):
		return "date_format"
	case errors.As(err, &herr):
		return "no_history"
	case errors.As(err, &perr):
		return "prediction"
	default:
		return "internal"
	}
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

type nopMetrics struct{}

func (nopMetrics) RecordPrediction(string, string)         {}
func (nopMetrics) RecordError(string)                      {}
func (nopMetrics) RecordLastPrice(string, string, float64) {}
func (nopMetrics) RecordLatency(string, float64)           {}
