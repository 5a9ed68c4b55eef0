package domain

import "errors"

// ErrNoHistoricalData marks a station with no readings behind it. Callers
// skip the station and continue the run; this is never a run-level failure.
var ErrNoHistoricalData = errors.New("no historical data")

// StationProfile is a station's mean pollutant vector over all its
// historical readings. A profile always has Readings ≥ 1: stations without
// data never get a profile and their absence is reported by the caller.
type StationProfile struct {
	Station  string
	Mean     FeatureVector
	Readings int
}

// BuildProfiles computes per-station mean feature vectors from the
// historical table. Stations with zero readings simply do not appear in the
// result; the forecast run reports them as skipped when they are expected.
func BuildProfiles(readings []PollutantReading) map[string]StationProfile {
	sums := make(map[string]*StationProfile)
	for _, r := range readings {
		p, ok := sums[r.Station]
		if !ok {
			p = &StationProfile{Station: r.Station}
			sums[r.Station] = p
		}
		for i := range r.Features {
			p.Mean[i] += r.Features[i]
		}
		p.Readings++
	}

	profiles := make(map[string]StationProfile, len(sums))
	for id, p := range sums {
		for i := range p.Mean {
			p.Mean[i] /= float64(p.Readings)
		}
		profiles[id] = *p
	}
	return profiles
}
