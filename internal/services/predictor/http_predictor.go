package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"AgriCast/internal/domain/models"
	domsvc "AgriCast/internal/domain/service"
	"AgriCast/pkg/config"
	applogger "AgriCast/pkg/logger"

	"github.com/go-resty/resty/v2"
)

const predictPath = "/predict"

type predictRequest struct {
	ModelVersion string                 `json:"model_version,omitempty"`
	Rows         []models.FeatureRecord `json:"rows"`
}

type predictResponse struct {
	Predictions  []*float64 `json:"predictions"`
	ModelVersion string     `json:"model_version,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// HTTPPredictor sends feature rows to the model server, which holds the
// trained regressor together with its fitted preprocessor.
type HTTPPredictor struct {
	client       *resty.Client
	modelVersion string
	l            *applogger.Logger
}

// NewHTTPPredictor builds a client with timeout, base URL and retry count from config.
func NewHTTPPredictor(cfg *config.Config) *HTTPPredictor {
	timeout := cfg.Predictor.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Predictor.ServiceURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.Predictor.RetryCount > 0 {
		client.SetRetryCount(cfg.Predictor.RetryCount).
			SetRetryWaitTime(50 * time.Millisecond)
	}
	return &HTTPPredictor{
		client:       client,
		modelVersion: cfg.Predictor.ModelVersion,
		l:            applogger.Nop(),
	}
}

// SetLogger sets the logger used for model version mismatches.
func (p *HTTPPredictor) SetLogger(l *applogger.Logger) {
	if l != nil {
		p.l = l
	}
}

// ModelVersion reports the configured model identifier.
func (p *HTTPPredictor) ModelVersion() string {
	return p.modelVersion
}

// Predict posts all rows in one request so the server preprocesses them as a
// single batch, and returns one price per row in row order.
func (p *HTTPPredictor) Predict(ctx context.Context, rows []models.FeatureRecord) ([]float64, error) {
	if len(rows) == 0 {
		return []float64{}, nil
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(predictRequest{ModelVersion: p.modelVersion, Rows: rows}).
		Post(predictPath)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", predictPath, err)
	}

	var out predictResponse
	decodeErr := json.Unmarshal(resp.Body(), &out)
	if resp.IsError() {
		msg := strings.TrimSpace(string(resp.Body()))
		if decodeErr == nil && out.Error != "" {
			msg = out.Error
		}
		return nil, fmt.Errorf("model server returned %d: %s", resp.StatusCode(), msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode prediction response: %w", decodeErr)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("model server: %s", out.Error)
	}
	if len(out.Predictions) != len(rows) {
		return nil, fmt.Errorf("model server returned %d predictions for %d rows", len(out.Predictions), len(rows))
	}
	if out.ModelVersion != "" && p.modelVersion != "" && out.ModelVersion != p.modelVersion {
		p.l.Warn("model version mismatch",
			applogger.String("configured", p.modelVersion),
			applogger.String("served", out.ModelVersion),
		)
	}
	prices := make([]float64, len(out.Predictions))
	for i, v := range out.Predictions {
		if v == nil {
			return nil, fmt.Errorf("row %d: null prediction", i)
		}
		prices[i] = *v
	}
	return prices, nil
}

var _ domsvc.Predictor = (*HTTPPredictor)(nil)
