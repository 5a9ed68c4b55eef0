package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
	"github.com/couchcryptid/aqi-forecast-service/internal/observability"
)

// RemoteClient implements domain.Regressor against an HTTP model server
// exposing POST /predict.
type RemoteClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewRemoteClient creates a model-server client.
func NewRemoteClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *RemoteClient {
	return &RemoteClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
		metrics: metrics,
	}
}

type predictRequest struct {
	Features [][]float64 `json:"features"`
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// Predict posts the feature matrix and returns the server's predictions.
func (c *RemoteClient) Predict(ctx context.Context, features []domain.FeatureVector) ([]float64, error) {
	matrix := make([][]float64, len(features))
	for i, f := range features {
		row := make([]float64, len(f))
		copy(row, f[:])
		matrix[i] = row
	}

	body, err := json.Marshal(predictRequest{Features: matrix})
	if err != nil {
		return nil, fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ModelRequestDuration.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ModelRequests.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ModelRequests.WithLabelValues(c.Name(), "error").Inc()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("model server error: status %d: %s", resp.StatusCode, respBody)
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		c.metrics.ModelRequests.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	if len(pr.Predictions) != len(features) {
		c.metrics.ModelRequests.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("model server returned %d predictions for %d vectors", len(pr.Predictions), len(features))
	}

	c.metrics.ModelRequests.WithLabelValues(c.Name(), "success").Inc()
	return pr.Predictions, nil
}

func (c *RemoteClient) Name() string { return "remote" }
