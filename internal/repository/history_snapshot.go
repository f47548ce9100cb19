package repository

import (
	"context"
	"fmt"
	"time"

	"AgriCast/internal/domain/models"
	domrepo "AgriCast/internal/domain/repository"
	applogger "AgriCast/pkg/logger"
)

type historyKey struct {
	commodity string
	market    string
}

// HistorySnapshot is an immutable index of arrival dates by exact
// (commodity, market). It is built once and shared by all requests.
type HistorySnapshot struct {
	index map[historyKey][]time.Time
	rows  int
}

// NewHistorySnapshot indexes records, keeping dataset order within each key.
func NewHistorySnapshot(records []models.HistoricalRecord) *HistorySnapshot {
	idx := make(map[historyKey][]time.Time)
	for _, r := range records {
		k := historyKey{commodity: r.Commodity, market: r.Market}
		idx[k] = append(idx[k], r.ArrivalDate)
	}
	return &HistorySnapshot{index: idx, rows: len(records)}
}

// Query returns a copy of the matching arrival dates. Matching is
// case-sensitive and exact.
func (s *HistorySnapshot) Query(commodity, market string) []time.Time {
	dates := s.index[historyKey{commodity: commodity, market: market}]
	out := make([]time.Time, len(dates))
	copy(out, dates)
	return out
}

// Len reports the number of indexed rows.
func (s *HistorySnapshot) Len() int {
	return s.rows
}

// Series reports the number of distinct (commodity, market) pairs.
func (s *HistorySnapshot) Series() int {
	return len(s.index)
}

// LoadHistory runs loader once and indexes the result.
func LoadHistory(ctx context.Context, loader domrepo.HistoryLoader, l *applogger.Logger) (*HistorySnapshot, error) {
	start := time.Now()
	records, err := loader.Load(ctx)
	if err != nil {
		l.Error("history load failed",
			applogger.String("source", loader.Source()),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("load history from %s: %w", loader.Source(), err)
	}
	snap := NewHistorySnapshot(records)
	l.Info("history loaded",
		applogger.String("source", loader.Source()),
		applogger.Int("rows", snap.Len()),
		applogger.Int("series", snap.Series()),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return snap, nil
}

var _ domrepo.HistoricalTable = (*HistorySnapshot)(nil)
