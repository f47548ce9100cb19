package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"AgriCast/internal/domain/models"
	"AgriCast/pkg/config"
	applogger "AgriCast/pkg/logger"
)

func newTestPredictor(t *testing.T, url string) *HTTPPredictor {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Predictor.ServiceURL = url
	cfg.Predictor.Timeout = 2 * time.Second
	return NewHTTPPredictor(cfg)
}

func rows(n int) []models.FeatureRecord {
	out := make([]models.FeatureRecord, n)
	for i := range out {
		out[i] = models.FeatureRecord{
			State: "MH", District: "Pune", Market: "Pune",
			Commodity: "Onion", Variety: "Red", ArrivalDate: "01-01-2024",
		}
	}
	return out
}

func TestPredictSendsBatch(t *testing.T) {
	var got predictRequest
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/predict" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[1100.5,1101.25,1099]}`))
	}))
	defer srv.Close()

	p := newTestPredictor(t, srv.URL+"/")
	prices, err := p.Predict(context.Background(), rows(3))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(prices) != 3 || prices[0] != 1100.5 || prices[2] != 1099 {
		t.Fatalf("prices = %v", prices)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls = %d, want one batched call", calls)
	}
	if len(got.Rows) != 3 || got.Rows[0].Commodity != "Onion" {
		t.Fatalf("request rows = %+v", got.Rows)
	}
	if got.ModelVersion != p.ModelVersion() {
		t.Fatalf("model version = %q", got.ModelVersion)
	}
}

func TestPredictErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error field", http.StatusInternalServerError, `{"error":"unknown category 'Mars'"}`, "unknown category"},
		{"plain text failure", http.StatusBadGateway, "upstream down", "upstream down"},
		{"length mismatch", http.StatusOK, `{"predictions":[1,2]}`, "2 predictions for 3 rows"},
		{"error on success", http.StatusOK, `{"error":"model not loaded"}`, "model not loaded"},
		{"garbage", http.StatusOK, `not json`, "decode"},
		{"null prediction", http.StatusOK, `{"predictions":[1,null,3]}`, "row 1: null prediction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestPredictor(t, srv.URL).Predict(context.Background(), rows(3))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestPredictEmptyRowsSkipsCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	prices, err := newTestPredictor(t, srv.URL).Predict(context.Background(), nil)
	if err != nil || len(prices) != 0 {
		t.Fatalf("prices = %v, err = %v", prices, err)
	}
}

func TestPredictHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := newTestPredictor(t, srv.URL).Predict(ctx, rows(1)); err == nil {
		t.Fatal("expected error after context deadline")
	}
}

func TestPredictWarnsOnModelVersionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[1000],"model_version":"gradient_boost_v2"}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	p := newTestPredictor(t, srv.URL)
	p.SetLogger(applogger.NewWithWriter(&buf))
	prices, err := p.Predict(context.Background(), rows(1))
	if err != nil || len(prices) != 1 || prices[0] != 1000 {
		t.Fatalf("prices = %v, err = %v", prices, err)
	}
	if !strings.Contains(buf.String(), "model version mismatch") || !strings.Contains(buf.String(), "gradient_boost_v2") {
		t.Fatalf("log = %q", buf.String())
	}
}
