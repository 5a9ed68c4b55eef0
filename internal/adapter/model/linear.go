// Package model provides regressor implementations and decorators: a linear
// artifact loaded from disk, a remote inference-server client, an LRU
// prediction cache, a rate-limit decorator, and a reloadable handle.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
)

// Artifact is the JSON export of the trained AQI regressor produced by the
// training pipeline.
type Artifact struct {
	ModelType    string    `json:"model_type"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Metrics      struct {
		R2  float64 `json:"r2"`
		MAE float64 `json:"mae"`
	} `json:"metrics"`
}

// Linear implements domain.Regressor with a linear model from an exported
// artifact.
type Linear struct {
	coefficients domain.FeatureVector
	intercept    float64
}

// LoadLinear reads and validates a linear model artifact from disk.
func LoadLinear(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	return NewLinear(a)
}

// NewLinear builds a regressor from an artifact, validating that its feature
// layout matches the pipeline's fixed pollutant order.
func NewLinear(a Artifact) (*Linear, error) {
	if len(a.FeatureNames) != domain.NumPollutants {
		return nil, fmt.Errorf("model artifact has %d features, want %d", len(a.FeatureNames), domain.NumPollutants)
	}
	if len(a.Coefficients) != domain.NumPollutants {
		return nil, fmt.Errorf("model artifact has %d coefficients, want %d", len(a.Coefficients), domain.NumPollutants)
	}
	for i, name := range a.FeatureNames {
		if name != domain.FeatureNames[i] {
			return nil, fmt.Errorf("model artifact feature %d is %q, want %q", i, name, domain.FeatureNames[i])
		}
	}

	l := &Linear{intercept: a.Intercept}
	copy(l.coefficients[:], a.Coefficients)
	return l, nil
}

// Predict computes one AQI value per feature vector.
func (l *Linear) Predict(_ context.Context, features []domain.FeatureVector) ([]float64, error) {
	preds := make([]float64, len(features))
	for i, f := range features {
		v := l.intercept
		for j := range f {
			v += l.coefficients[j] * f[j]
		}
		preds[i] = v
	}
	return preds, nil
}

func (l *Linear) Name() string { return "linear" }
