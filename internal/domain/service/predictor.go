package service

import (
	"context"

	"AgriCast/internal/domain/models"
)

// Predictor maps feature rows to scalar prices. Implementations must return
// exactly one price per row, in row order, and must apply their
// preprocessing to the batch as a whole.
type Predictor interface {
	Predict(ctx context.Context, rows []models.FeatureRecord) ([]float64, error)
}

// NoiseSource yields the perturbation added to each forecast value.
// Implementations must be safe for concurrent use.
type NoiseSource interface {
	Sample() float64
}
