package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"AgriCast/internal/domain/models"
	domrepo "AgriCast/internal/domain/repository"
)

// CSVHistoryLoader reads the weekly commodity price export.
type CSVHistoryLoader struct {
	path string
}

func NewCSVHistoryLoader(path string) *CSVHistoryLoader {
	return &CSVHistoryLoader{path: path}
}

func (l *CSVHistoryLoader) Source() string { return "csv:" + l.path }

func (l *CSVHistoryLoader) Load(ctx context.Context) ([]models.HistoricalRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()
	return readCSVHistory(ctx, f)
}

func readCSVHistory(ctx context.Context, r io.Reader) ([]models.HistoricalRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var out []models.HistoricalRecord
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, ok, err := cols.record(row, line)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

var _ domrepo.HistoryLoader = (*CSVHistoryLoader)(nil)
