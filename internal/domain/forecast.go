package domain

import (
	"errors"
	"fmt"
)

// Forecast horizon. Years are contiguous; every trajectory covers all of them.
const (
	ForecastStartYear = 2025
	ForecastEndYear   = 2030
	ForecastYears     = ForecastEndYear - ForecastStartYear + 1
)

// totalImprovement is the cumulative damping reached by the final forecast
// year: predictions for 2030 are discounted to 85% of the raw model output.
const totalImprovement = 0.15

// ErrModelInference marks a regressor failure for one station's feature
// matrix. Fatal for that station's forecast only; other stations proceed.
var ErrModelInference = errors.New("model inference failed")

// DampingFactor returns the trend discount for the i-th forecast year
// (0-based): a linear interpolation from 1.0 at 2025 down to 0.85 at 2030.
func DampingFactor(i int) float64 {
	return 1 - totalImprovement*float64(i)/float64(ForecastYears-1)
}

// DampingFactors returns the full discount sequence, strictly decreasing:
// [1.0, 0.97, 0.94, 0.91, 0.88, 0.85].
func DampingFactors() [ForecastYears]float64 {
	var f [ForecastYears]float64
	for i := range f {
		f[i] = DampingFactor(i)
	}
	return f
}

// ForecastPoint is one forecast value: a year and its damped AQI.
type ForecastPoint struct {
	Year int     `json:"year"`
	AQI  float64 `json:"aqi"`
}

// StationForecast is a station's complete 6-year trajectory plus its
// arithmetic mean. Immutable once produced; owned by the run that built it.
type StationForecast struct {
	Station   string                       `json:"station"`
	Latitude  float64                      `json:"latitude"`
	Longitude float64                      `json:"longitude"`
	Points    [ForecastYears]ForecastPoint `json:"points"`
	AvgAQI    float64                      `json:"avg_aqi"`
}

// BuildStationForecast applies the damping trend to raw model predictions
// and packages them as an ordered trajectory with its mean. The prediction
// count must match the forecast horizon; a mismatch means the regressor
// violated its contract and is reported as an inference failure.
func BuildStationForecast(station string, lat, lon float64, rawPredictions []float64) (StationForecast, error) {
	if len(rawPredictions) != ForecastYears {
		return StationForecast{}, fmt.Errorf("%w: got %d predictions, want %d",
			ErrModelInference, len(rawPredictions), ForecastYears)
	}

	fc := StationForecast{
		Station:   station,
		Latitude:  lat,
		Longitude: lon,
	}
	var sum float64
	for i, raw := range rawPredictions {
		aqi := raw * DampingFactor(i)
		fc.Points[i] = ForecastPoint{Year: ForecastStartYear + i, AQI: aqi}
		sum += aqi
	}
	fc.AvgAQI = sum / ForecastYears
	return fc, nil
}

// SkipReason explains why a station is absent from a run's result set.
type SkipReason string

const (
	SkipNoHistoricalData SkipReason = "no_historical_data"
	SkipModelInference   SkipReason = "model_inference_error"
)

// SkippedStation records a station excluded from a forecast run. Partial
// results are a valid outcome; consumers must tolerate absent stations.
type SkippedStation struct {
	Station string     `json:"station"`
	Reason  SkipReason `json:"reason"`
	Detail  string     `json:"detail,omitempty"`
}
