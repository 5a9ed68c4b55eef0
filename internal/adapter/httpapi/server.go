// Package httpapi exposes the forecast API plus health, readiness, and
// metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
	"github.com/couchcryptid/aqi-forecast-service/internal/forecast"
	"github.com/couchcryptid/aqi-forecast-service/internal/stations"
)

// ForecastRunner runs one scenario forecast to completion.
type ForecastRunner interface {
	Run(ctx context.Context, scenario domain.Scenario) (*forecast.Result, error)
}

// ResultPublisher forwards a completed run to downstream consumers.
type ResultPublisher interface {
	PublishResult(ctx context.Context, result *forecast.Result) error
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the forecast HTTP API.
type Server struct {
	httpServer *http.Server
	runner     ForecastRunner
	registry   *stations.Registry
	publisher  ResultPublisher // nil when Kafka publishing is disabled
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the forecast, station, and
// operational routes. Pass a nil publisher to disable result publishing.
func NewServer(addr string, runner ForecastRunner, registry *stations.Registry,
	ready ReadinessChecker, publisher ResultPublisher, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		runner:    runner,
		registry:  registry,
		publisher: publisher,
		logger:    logger,
	}

	mux.HandleFunc("POST /v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/stations", s.handleStations)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// Response shapes. Risk bands are recomputed from AQI values here, at
// presentation time; they are never stored in the forecast result.

type forecastResponse struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Scenario    domain.Scenario            `json:"scenario"`
	Stations    map[string]stationResponse `json:"stations"`
	Skipped     []domain.SkippedStation    `json:"skipped"`
}

type stationResponse struct {
	Station   string          `json:"station"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	AvgAQI    float64         `json:"avg_aqi"`
	Risk      domain.RiskBand `json:"risk"`
	Color     string          `json:"color"`
	Points    []pointResponse `json:"points"`
}

type pointResponse struct {
	Year int             `json:"year"`
	AQI  float64         `json:"aqi"`
	Risk domain.RiskBand `json:"risk"`
}

// handleForecast runs one synchronous forecast. An empty request body runs
// the baseline scenario; otherwise all four parameters are read from JSON,
// with absent fields defaulting to zero.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	scenario := domain.DefaultScenario()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<16))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read request body"})
		return
	}
	if len(body) > 0 {
		scenario = domain.Scenario{}
		if err := json.Unmarshal(body, &scenario); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scenario JSON"})
			return
		}
	}

	result, err := s.runner.Run(r.Context(), scenario)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidScenario) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Error("forecast run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "forecast run failed"})
		return
	}

	// Best-effort publishing: a sink outage must not fail the response.
	if s.publisher != nil {
		if err := s.publisher.PublishResult(r.Context(), result); err != nil {
			s.logger.Warn("forecast publish failed", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, toForecastResponse(result))
}

func toForecastResponse(result *forecast.Result) forecastResponse {
	resp := forecastResponse{
		GeneratedAt: result.GeneratedAt,
		Scenario:    result.Scenario,
		Stations:    make(map[string]stationResponse, len(result.Stations)),
		Skipped:     result.Skipped,
	}
	if resp.Skipped == nil {
		resp.Skipped = []domain.SkippedStation{}
	}
	for id, fc := range result.Stations {
		sr := stationResponse{
			Station:   fc.Station,
			Latitude:  fc.Latitude,
			Longitude: fc.Longitude,
			AvgAQI:    fc.AvgAQI,
			Risk:      domain.ClassifyAQI(fc.AvgAQI),
			Color:     domain.ClassifyAQI(fc.AvgAQI).Color(),
			Points:    make([]pointResponse, 0, len(fc.Points)),
		}
		for _, pt := range fc.Points {
			sr.Points = append(sr.Points, pointResponse{
				Year: pt.Year,
				AQI:  pt.AQI,
				Risk: domain.ClassifyAQI(pt.AQI),
			})
		}
		resp.Stations[id] = sr
	}
	return resp
}

func (s *Server) handleStations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"stations": s.registry.List()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
