package features

import (
	"reflect"
	"testing"
	"time"

	"AgriCast/internal/domain/models"
)

func query() *models.PriceQuery {
	minP, maxP := 500.0, 800.0
	return &models.PriceQuery{
		State:       "MH",
		District:    "Pune",
		Market:      "Pune",
		Commodity:   "Onion",
		Variety:     "Red",
		ArrivalDate: "1-1-2024",
		MinPrice:    &minP,
		MaxPrice:    &maxP,
	}
}

func TestAssembleNormalizesDate(t *testing.T) {
	q := query()
	rec := Assemble(q, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if rec.ArrivalDate != "01-01-2024" {
		t.Fatalf("date = %q", rec.ArrivalDate)
	}
	if rec.State != "MH" || rec.District != "Pune" || rec.Market != "Pune" || rec.Commodity != "Onion" || rec.Variety != "Red" {
		t.Fatalf("categorical fields not preserved: %+v", rec)
	}
	if rec.MinPrice != q.MinPrice || rec.MaxPrice != q.MaxPrice {
		t.Fatalf("prices not passed through")
	}
}

func TestAssembleKeepsMissingPrices(t *testing.T) {
	q := query()
	q.MinPrice, q.MaxPrice = nil, nil
	rec := Assemble(q, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if rec.MinPrice != nil || rec.MaxPrice != nil {
		t.Fatalf("missing prices must stay nil, got %v %v", rec.MinPrice, rec.MaxPrice)
	}
}

func TestAssembleSeries(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		n    int
		want []string
	}{
		{
			name: "new year",
			date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			n:    5,
			want: []string{"02-01-2024", "03-01-2024", "04-01-2024", "05-01-2024", "06-01-2024"},
		},
		{
			name: "year rollover",
			date: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			n:    3,
			want: []string{"31-12-2024", "01-01-2025", "02-01-2025"},
		},
		{
			name: "leap day",
			date: time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC),
			n:    3,
			want: []string{"28-02-2024", "29-02-2024", "01-03-2024"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := AssembleSeries(query(), tt.date, tt.n)
			if got := SeriesDates(rows); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("dates = %v, want %v", got, tt.want)
			}
			for _, r := range rows {
				if r.Commodity != "Onion" || r.Market != "Pune" || *r.MinPrice != 500 || *r.MaxPrice != 800 {
					t.Fatalf("shared fields differ: %+v", r)
				}
			}
		})
	}
}

func TestAssembleSeriesEmpty(t *testing.T) {
	if rows := AssembleSeries(query(), time.Now(), 0); rows != nil {
		t.Fatalf("expected nil, got %v", rows)
	}
}
