package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"AgriCast/internal/domain/models"
	applogger "AgriCast/pkg/logger"

	"github.com/xuri/excelize/v2"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSnapshotQuery(t *testing.T) {
	snap := NewHistorySnapshot([]models.HistoricalRecord{
		{Commodity: "Onion", Market: "Pune", ArrivalDate: day(2023, 7, 28)},
		{Commodity: "Onion", Market: "Nashik", ArrivalDate: day(2023, 7, 27)},
		{Commodity: "Onion", Market: "Pune", ArrivalDate: day(2023, 7, 27)},
	})
	if snap.Len() != 3 || snap.Series() != 2 {
		t.Fatalf("len = %d series = %d", snap.Len(), snap.Series())
	}

	got := snap.Query("Onion", "Pune")
	if len(got) != 2 || !got[0].Equal(day(2023, 7, 28)) || !got[1].Equal(day(2023, 7, 27)) {
		t.Fatalf("dataset order not kept: %v", got)
	}

	got[0] = day(1999, 1, 1)
	if again := snap.Query("Onion", "Pune"); !again[0].Equal(day(2023, 7, 28)) {
		t.Fatal("query result aliases the snapshot")
	}

	for _, q := range [][2]string{{"onion", "Pune"}, {"Onion", "pune"}, {"Rice", "Pune"}} {
		if got := snap.Query(q[0], q[1]); len(got) != 0 {
			t.Errorf("%v matched %v", q, got)
		}
	}
}

const sampleCSV = "\ufeffState,District,Market,Commodity,Variety,Grade,Arrival_Date,Min Price,Max Price,Modal Price\n" +
	"Maharashtra,Pune,Pune,Onion,Red,FAQ,27-07-2023,800,1400,1100\n" +
	",,,,,,,,,\n" +
	"Maharashtra,Pune,Pune,Onion,Red,FAQ,5-8-2023,850,1450,1150\n" +
	"Gujarat,Amreli,Amreli,Cotton,Other,FAQ,27-07-2023,6500,7200,7000\n"

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVLoader(t *testing.T) {
	l := NewCSVHistoryLoader(writeFile(t, "prices.csv", sampleCSV))
	recs, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records = %d, want 3 (blank row skipped)", len(recs))
	}
	if recs[1].Commodity != "Onion" || !recs[1].ArrivalDate.Equal(day(2023, 8, 5)) {
		t.Fatalf("second record = %+v", recs[1])
	}
	if !strings.HasPrefix(l.Source(), "csv:") {
		t.Errorf("source = %q", l.Source())
	}
}

func TestCSVLoaderKeepsCellText(t *testing.T) {
	body := "Commodity,Market,Arrival_Date\n" +
		"Onion ,Pune,27-07-2023\n" +
		"Onion,Pune, 28-07-2023\n"
	recs, err := NewCSVHistoryLoader(writeFile(t, "h.csv", body)).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := NewHistorySnapshot(recs)
	if got := snap.Query("Onion", "Pune"); len(got) != 1 || !got[0].Equal(day(2023, 7, 28)) {
		t.Fatalf("Onion/Pune = %v", got)
	}
	if got := snap.Query("Onion ", "Pune"); len(got) != 1 || !got[0].Equal(day(2023, 7, 27)) {
		t.Fatalf("\"Onion \"/Pune = %v", got)
	}
}

func TestCSVLoaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty", "", "empty file"},
		{"missing column", "State,Market,Commodity\nMH,Pune,Onion\n", "arrival_date"},
		{"bad date", "Commodity,Market,Arrival_Date\nOnion,Pune,27-07-2023\nOnion,Pune,2023-07-28\n", "line 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSVHistoryLoader(writeFile(t, "h.csv", tt.body)).Load(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
	if _, err := NewCSVHistoryLoader(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestXLSXLoader(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"State", "Market", "Commodity", "Arrival_Date"},
		{"Maharashtra", "Pune", "Onion", "27-07-2023"},
		{"Maharashtra", "Pune", "Tomato", "28-07-2023"},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "prices.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	recs, err := NewXLSXHistoryLoader(path, "").Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 2 || recs[1].Commodity != "Tomato" || !recs[1].ArrivalDate.Equal(day(2023, 7, 28)) {
		t.Fatalf("records = %+v", recs)
	}

	if _, err := NewXLSXHistoryLoader(path, "Missing").Load(context.Background()); err == nil {
		t.Error("expected error for unknown sheet")
	}
}

func TestHistoryQueryRejectsBadTable(t *testing.T) {
	for _, name := range []string{"prices; DROP TABLE x", "", "a.b.c", "1abc"} {
		if _, err := historyQuery(name); err == nil {
			t.Errorf("%q accepted", name)
		}
	}
	for _, name := range []string{"commodity_prices", "agri.commodity_prices"} {
		if _, err := historyQuery(name); err != nil {
			t.Errorf("%q rejected: %v", name, err)
		}
	}
}

type stubLoader struct {
	recs []models.HistoricalRecord
	err  error
}

func (s stubLoader) Load(context.Context) ([]models.HistoricalRecord, error) { return s.recs, s.err }
func (s stubLoader) Source() string                                          { return "stub" }

func TestLoadHistory(t *testing.T) {
	snap, err := LoadHistory(context.Background(), stubLoader{recs: []models.HistoricalRecord{
		{Commodity: "Onion", Market: "Pune", ArrivalDate: day(2023, 7, 27)},
	}}, applogger.Nop())
	if err != nil || snap.Len() != 1 {
		t.Fatalf("snap = %v, err = %v", snap, err)
	}

	_, err = LoadHistory(context.Background(), stubLoader{err: os.ErrNotExist}, applogger.Nop())
	if err == nil || !strings.Contains(err.Error(), "stub") {
		t.Fatalf("err = %v", err)
	}
}
