package repository

import (
	"context"
	"time"

	"AgriCast/internal/domain/models"
)

// HistoricalTable is a read-only view over observed arrival dates.
type HistoricalTable interface {
	// Query returns the arrival dates for an exact (commodity, market) match,
	// in dataset order. It returns an empty slice when nothing matches.
	Query(commodity, market string) []time.Time
	Len() int
}

// HistoryLoader reads the raw historical dataset from a backing source.
type HistoryLoader interface {
	Load(ctx context.Context) ([]models.HistoricalRecord, error)
	Source() string
}

type Metrics interface {
	RecordPrediction(endpoint, commodity string)
	RecordError(kind string)
	RecordLastPrice(commodity, market string, price float64)
	RecordLatency(op string, seconds float64)
}
