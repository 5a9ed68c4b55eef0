package domain

import "context"

// Regressor maps pollutant feature vectors to scalar AQI predictions.
// Implementations must be stateless and safe for concurrent use: one
// regressor is shared read-only across all station computations in a run.
type Regressor interface {
	// Predict returns one AQI prediction per input vector, in input order.
	Predict(ctx context.Context, features []FeatureVector) ([]float64, error)

	// Name identifies the provider for logging and metrics labels.
	Name() string
}
