package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"AgriCast/internal/domain/models"
	icache "AgriCast/internal/service/cache"
	xhttp "AgriCast/pkg/http"
	applogger "AgriCast/pkg/logger"
	"AgriCast/pkg/util"

	"github.com/labstack/echo/v4"
)

const homeMessage = "API is running successfully!"

// Forecaster is the use case behind the prediction routes.
type Forecaster interface {
	Predict(ctx context.Context, q *models.PriceQuery) (*models.PredictionResult, error)
	Analyze(ctx context.Context, q *models.PriceQuery) (*models.Analysis, error)
}

// HealthInfo describes what /health reports.
type HealthInfo struct {
	HistoryRows  int    `json:"history_rows"`
	ModelVersion string `json:"model_version"`
	Horizon      int    `json:"horizon"`
}

// ForecastEchoHandler serves the prediction API.
type ForecastEchoHandler struct {
	l        *applogger.Logger
	engine   Forecaster
	health   HealthInfo
	cache    icache.BytesCache
	cacheTTL time.Duration
}

func NewForecastEchoHandler(l *applogger.Logger, engine Forecaster, health HealthInfo) *ForecastEchoHandler {
	if l == nil {
		l = applogger.Nop()
	}
	return &ForecastEchoHandler{l: l, engine: engine, health: health}
}

// SetCache enables response caching for /predict.
func (h *ForecastEchoHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	h.cacheTTL = ttl
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Home)
	e.GET("/health", h.Health)
	e.POST("/predict", h.Predict)
	e.POST("/analysis", h.Analysis)
}

func (h *ForecastEchoHandler) Home(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"message": homeMessage})
}

func (h *ForecastEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.health)
}

func (h *ForecastEchoHandler) Predict(c echo.Context) error {
	q := &models.PriceQuery{}
	if aerr := xhttp.ReadRequest(c, q); aerr != nil {
		return xhttp.AppErrorResponse(c, aerr)
	}
	ctx := c.Request().Context()

	key, cacheable := h.cacheKey(q)
	if cacheable {
		if b, ok, err := h.cache.GetBytes(ctx, key); err != nil {
			h.l.Warn("predict cache_get_error", applogger.Error(err))
		} else if ok {
			var cached models.PredictionResult
			if err := json.Unmarshal(b, &cached); err == nil {
				h.l.Debug("predict cache_hit", applogger.String("key", key))
				return xhttp.SuccessResponse(c, &cached)
			}
			h.l.Warn("predict cache_decode_error", applogger.String("key", key))
		}
	}

	res, err := h.engine.Predict(ctx, q)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	if cacheable {
		if b, err := json.Marshal(res); err == nil {
			if err := h.cache.SetBytes(ctx, key, b, h.cacheTTL); err != nil {
				h.l.Warn("predict cache_set_error", applogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Analysis(c echo.Context) error {
	q := &models.PriceQuery{}
	if aerr := xhttp.ReadRequest(c, q); aerr != nil {
		return xhttp.AppErrorResponse(c, aerr)
	}
	res, err := h.engine.Analyze(c.Request().Context(), q)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// cacheKey hashes the query as the model would see it, so "5-3-2024" and
// "05-03-2024" share an entry. Queries with an unparseable date are not cached.
func (h *ForecastEchoHandler) cacheKey(q *models.PriceQuery) (string, bool) {
	if h.cache == nil {
		return "", false
	}
	date, ok := util.NormalizeDate(q.ArrivalDate)
	if !ok {
		return "", false
	}
	norm := *q
	norm.ArrivalDate = date
	b, err := json.Marshal(struct {
		Model string             `json:"m"`
		Query *models.PriceQuery `json:"q"`
	}{h.health.ModelVersion, &norm})
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(b)
	return "predict:" + hex.EncodeToString(sum[:]), true
}
