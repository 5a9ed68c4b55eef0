package domain

// RiskBand is the discrete classification of an AQI value.
type RiskBand string

const (
	RiskLow      RiskBand = "low"
	RiskModerate RiskBand = "moderate"
	RiskHigh     RiskBand = "high"
)

// ClassifyAQI maps an AQI value to its risk band. Boundaries are closed
// below: 50 is moderate, 100 is high. Pure function; always recomputed from
// the value at presentation time, never cached in forecast results.
func ClassifyAQI(aqi float64) RiskBand {
	switch {
	case aqi < 50:
		return RiskLow
	case aqi < 100:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// Color returns the map-marker color for the band.
func (b RiskBand) Color() string {
	switch b {
	case RiskLow:
		return "green"
	case RiskModerate:
		return "orange"
	default:
		return "red"
	}
}
