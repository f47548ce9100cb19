package models

import "time"

// PriceQuery is the raw prediction request as received from a client.
// Min/Max prices are optional; nil means "not provided", never zero.
type PriceQuery struct {
	State       string   `json:"State" validate:"notblank"`
	District    string   `json:"District" validate:"notblank"`
	Market      string   `json:"Market" validate:"notblank"`
	Commodity   string   `json:"Commodity" validate:"notblank"`
	Variety     string   `json:"Variety" validate:"notblank"`
	ArrivalDate string   `json:"Arrival_Date" validate:"notblank"`
	MinPrice    *float64 `json:"Min_Price"`
	MaxPrice    *float64 `json:"Max_Price"`
}

// FeatureRecord is a single model-ready row. ArrivalDate is always DD-MM-YYYY.
type FeatureRecord struct {
	State       string   `json:"State"`
	District    string   `json:"District"`
	Market      string   `json:"Market"`
	Commodity   string   `json:"Commodity"`
	Variety     string   `json:"Variety"`
	ArrivalDate string   `json:"Arrival_Date"`
	MinPrice    *float64 `json:"Min_Price"`
	MaxPrice    *float64 `json:"Max_Price"`
}

// PredictionResult echoes the request fields together with the predicted price.
type PredictionResult struct {
	State          string   `json:"State"`
	District       string   `json:"District"`
	Market         string   `json:"Market"`
	Commodity      string   `json:"Commodity"`
	Variety        string   `json:"Variety"`
	ArrivalDate    string   `json:"Arrival_Date"`
	MinPrice       *float64 `json:"Min_Price"`
	MaxPrice       *float64 `json:"Max_Price"`
	PredictedPrice float64  `json:"Predicted_Price"`
}

// ForecastPoint is one day of a forecast series.
type ForecastPoint struct {
	ArrivalDate    string  `json:"Arrival_Date"`
	PredictedPrice float64 `json:"Predicted_Price"`
}

// HistoricalPoint is a historical row projected to its arrival date.
type HistoricalPoint struct {
	ArrivalDate string `json:"Arrival_Date"`
}

// Analysis is the multi-day forecast result.
type Analysis struct {
	HistoricalData    []HistoricalPoint `json:"historical_data"`
	FuturePredictions []ForecastPoint   `json:"future_predictions"`
}

// HistoricalRecord is one observed row of the historical dataset.
type HistoricalRecord struct {
	Commodity   string
	Market      string
	ArrivalDate time.Time
}
