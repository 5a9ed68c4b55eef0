// Package domain models Jakarta air-quality data and the scenario-to-forecast
// computation pipeline.
//
// # Data Source
//
// Historical pollutant readings come from Jakarta's five DKI monitoring
// stations (DKI1 Bunderan HI through DKI5 Kebon Jeruk), exported as a cleaned
// CSV with one row per reading. The export uses the Indonesian column name
// "stasiun" for the station identifier; the six pollutant columns are, in
// model feature order:
//
//	pm25, pm10, so2, co, o3, no2
//
// The trained AQI regressor consumes feature vectors in exactly this order.
// Everything in this package keys off [FeatureNames] so historical data,
// projection, and model artifacts cannot silently disagree on the layout.
//
// # Scenario Projection
//
// A forecast run is parameterized by four policy levers, each a percentage
// in [0,100]: EV adoption, emission-regulation strictness, green-area
// increase, and carbon-capture efficiency. Each pollutant's projected
// concentration is its historical mean scaled by a scenario multiplier
//
//	1 − (sum of driving parameters) / normalizer
//
// with a fixed driver set and normalizer per pollutant:
//
//	PM2.5  ev + regulation       / 200
//	PM10   green + regulation    / 220
//	SO2    capture + regulation  / 230
//	CO     capture + ev          / 250
//	O3     green                 / 200
//	NO2    regulation + ev       / 180
//
// Multipliers are clamped at zero: NO2's normalizer is 180, so maxed-out
// regulation and EV adoption would otherwise drive the multiplier negative
// and invert the concentration's sign. The projected vectors are identical
// for every forecast year; year-over-year variation comes solely from the
// damping trend applied after model inference.
//
// # Damping Trend
//
// Raw model predictions for 2025–2030 are discounted by a linear trend from
// 1.0 down to 0.85, modeling gradual background improvement independent of
// the scenario. The factor sequence is fixed:
//
//	[1.0, 0.97, 0.94, 0.91, 0.88, 0.85]
//
// # Risk Bands
//
// AQI values classify into three bands, closed below at each boundary:
//
//	aqi < 50    low       (green)
//	aqi < 100   moderate  (orange)
//	aqi ≥ 100   high      (red)
//
// Bands are always recomputed from the value at presentation time and never
// stored alongside forecasts.
package domain
