package domain

// Pollutant indexes one dimension of the model feature vector.
type Pollutant int

// Pollutants in model feature order. The order is part of the contract with
// the trained regressor and must match the historical export columns.
const (
	PM25 Pollutant = iota
	PM10
	SO2
	CO
	O3
	NO2

	// NumPollutants is the feature-vector dimensionality.
	NumPollutants = 6
)

// FeatureNames lists the pollutant column names in model feature order.
var FeatureNames = [NumPollutants]string{"pm25", "pm10", "so2", "co", "o3", "no2"}

func (p Pollutant) String() string {
	if p < 0 || int(p) >= NumPollutants {
		return "unknown"
	}
	return FeatureNames[p]
}

// FeatureVector holds one concentration per pollutant, in FeatureNames order.
type FeatureVector [NumPollutants]float64

// PollutantReading is one historical record for a station. Immutable;
// sourced from the historical data provider.
type PollutantReading struct {
	Station  string
	Features FeatureVector
}
