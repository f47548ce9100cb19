package features

import (
	"time"

	"AgriCast/internal/domain/models"
	"AgriCast/pkg/util"
)

// Assemble builds one feature record from a validated query and its parsed
// arrival date. The date is re-rendered as DD-MM-YYYY whatever form the
// client used; Min/Max prices are passed through untouched.
func Assemble(q *models.PriceQuery, date time.Time) models.FeatureRecord {
	return models.FeatureRecord{
		State:       q.State,
		District:    q.District,
		Market:      q.Market,
		Commodity:   q.Commodity,
		Variety:     q.Variety,
		ArrivalDate: util.FormatDate(date),
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
	}
}

// AssembleSeries builds n records that share every field except
// Arrival_Date, which is advanced by 1..n days from date.
func AssembleSeries(q *models.PriceQuery, date time.Time, n int) []models.FeatureRecord {
	if n <= 0 {
		return nil
	}
	out := make([]models.FeatureRecord, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Assemble(q, util.AddDays(date, i)))
	}
	return out
}

// SeriesDates returns the DD-MM-YYYY dates of an assembled series.
func SeriesDates(rows []models.FeatureRecord) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ArrivalDate
	}
	return out
}
