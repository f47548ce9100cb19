package repository

import (
	"context"
	"fmt"

	"AgriCast/internal/domain/models"
	domrepo "AgriCast/internal/domain/repository"

	"github.com/xuri/excelize/v2"
)

// XLSXHistoryLoader reads the history from a workbook sheet. An empty sheet
// name selects the first sheet.
type XLSXHistoryLoader struct {
	path  string
	sheet string
}

func NewXLSXHistoryLoader(path, sheet string) *XLSXHistoryLoader {
	return &XLSXHistoryLoader{path: path, sheet: sheet}
}

func (l *XLSXHistoryLoader) Source() string { return "xlsx:" + l.path }

func (l *XLSXHistoryLoader) Load(ctx context.Context) ([]models.HistoricalRecord, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	return tabularRecords(rows[0], rows[1:])
}

var _ domrepo.HistoryLoader = (*XLSXHistoryLoader)(nil)
