package repository

import (
	"fmt"
	"strings"

	"AgriCast/internal/domain/models"
	"AgriCast/pkg/util"
)

const (
	colCommodity   = "commodity"
	colMarket      = "market"
	colArrivalDate = "arrival_date"
)

// tabularColumns holds the positions of the columns the history needs in a
// spreadsheet-like source. Other columns are ignored.
type tabularColumns struct {
	commodity int
	market    int
	date      int
}

func locateColumns(header []string) (tabularColumns, error) {
	idx := util.HeaderIndex(header)
	var missing []string
	pos := func(name string) int {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	cols := tabularColumns{
		commodity: pos(colCommodity),
		market:    pos(colMarket),
		date:      pos(colArrivalDate),
	}
	if len(missing) > 0 {
		return tabularColumns{}, fmt.Errorf("header is missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// record converts one data row. line is 1-based and counts the header.
// ok is false for rows without a commodity, market or date, which are skipped.
// Commodity and market keep their cell text verbatim for exact matching.
func (c tabularColumns) record(row []string, line int) (rec models.HistoricalRecord, ok bool, err error) {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	commodity, market, raw := cell(c.commodity), cell(c.market), cell(c.date)
	if blank(commodity) || blank(market) || blank(raw) {
		return models.HistoricalRecord{}, false, nil
	}
	date, parsed := util.ParseDate(raw)
	if !parsed {
		return models.HistoricalRecord{}, false, fmt.Errorf("line %d: invalid arrival date %q", line, raw)
	}
	return models.HistoricalRecord{Commodity: commodity, Market: market, ArrivalDate: date}, true, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// tabularRecords converts a header plus data rows, failing on the first
// malformed date.
func tabularRecords(header []string, rows [][]string) ([]models.HistoricalRecord, error) {
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}
	out := make([]models.HistoricalRecord, 0, len(rows))
	for i, row := range rows {
		rec, ok, err := cols.record(row, i+2)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
