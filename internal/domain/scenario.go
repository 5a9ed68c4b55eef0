package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidScenario marks a scenario parameter outside [0,100]. The whole
// run is rejected; the caller can resubmit with valid parameters.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario holds the four policy levers, each a percentage in [0,100].
// Immutable for the duration of one forecast run.
type Scenario struct {
	EVAdoption         float64 `json:"evAdoption"`
	EmissionRegulation float64 `json:"emissionRegulation"`
	GreenArea          float64 `json:"greenArea"`
	CarbonCapture      float64 `json:"carbonCapture"`
}

// DefaultScenario returns the dashboard baseline scenario.
func DefaultScenario() Scenario {
	return Scenario{
		EVAdoption:         30,
		EmissionRegulation: 40,
		GreenArea:          25,
		CarbonCapture:      20,
	}
}

// Validate checks that every parameter is within its [0,100] domain.
func (s Scenario) Validate() error {
	params := []struct {
		name  string
		value float64
	}{
		{"evAdoption", s.EVAdoption},
		{"emissionRegulation", s.EmissionRegulation},
		{"greenArea", s.GreenArea},
		{"carbonCapture", s.CarbonCapture},
	}
	for _, p := range params {
		if p.value < 0 || p.value > 100 {
			return fmt.Errorf("%w: %s=%g outside [0,100]", ErrInvalidScenario, p.name, p.value)
		}
	}
	return nil
}

// Multiplier returns the dimensionless scaling factor the scenario applies
// to a pollutant's concentration. The driver sum and normalizer are fixed
// per pollutant; see the package documentation for the full table.
//
// The result is clamped at zero. NO2's normalizer (180) is below the
// drivers' combined maximum (200), so an extreme scenario would otherwise
// produce a negative multiplier and invert the concentration's sign.
func (s Scenario) Multiplier(p Pollutant) float64 {
	var drivers, normalizer float64
	switch p {
	case PM25:
		drivers, normalizer = s.EVAdoption+s.EmissionRegulation, 200
	case PM10:
		drivers, normalizer = s.GreenArea+s.EmissionRegulation, 220
	case SO2:
		drivers, normalizer = s.CarbonCapture+s.EmissionRegulation, 230
	case CO:
		drivers, normalizer = s.CarbonCapture+s.EVAdoption, 250
	case O3:
		drivers, normalizer = s.GreenArea, 200
	case NO2:
		drivers, normalizer = s.EmissionRegulation+s.EVAdoption, 180
	default:
		return 1
	}

	m := 1 - drivers/normalizer
	if m < 0 {
		return 0
	}
	return m
}

// Multipliers returns all six per-pollutant factors in feature order.
func (s Scenario) Multipliers() FeatureVector {
	var m FeatureVector
	for p := Pollutant(0); p < NumPollutants; p++ {
		m[p] = s.Multiplier(p)
	}
	return m
}

// Project derives a station's future feature vectors from its historical
// profile under this scenario. All returned vectors are identical: the
// multiplier is scenario-dependent but year-independent, and temporal
// variation is introduced later by the damping trend, not here.
func (s Scenario) Project(profile StationProfile) ([ForecastYears]FeatureVector, error) {
	var out [ForecastYears]FeatureVector
	if err := s.Validate(); err != nil {
		return out, err
	}
	if profile.Readings == 0 {
		return out, fmt.Errorf("%w: station %q", ErrNoHistoricalData, profile.Station)
	}

	scaled := profile.Mean
	for p := Pollutant(0); p < NumPollutants; p++ {
		scaled[p] *= s.Multiplier(p)
	}
	for i := range out {
		out[i] = scaled
	}
	return out, nil
}
