package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/aqi-forecast-service/internal/adapter/httpapi"
	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
	"github.com/couchcryptid/aqi-forecast-service/internal/forecast"
	"github.com/couchcryptid/aqi-forecast-service/internal/stations"
)

type mockRunner struct {
	lastScenario domain.Scenario
	result       *forecast.Result
	err          error
}

func (m *mockRunner) Run(_ context.Context, scenario domain.Scenario) (*forecast.Result, error) {
	m.lastScenario = scenario
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &forecast.Result{
		Scenario:    scenario,
		GeneratedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Stations:    map[string]domain.StationForecast{},
	}, nil
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockPublisher struct {
	published int
	err       error
}

func (m *mockPublisher) PublishResult(_ context.Context, _ *forecast.Result) error {
	m.published++
	return m.err
}

func newTestServer(runner *mockRunner, readyErr error, publisher httpapi.ResultPublisher) *httpapi.Server {
	return httpapi.NewServer(":0", runner, stations.Default(), &mockReadiness{err: readyErr},
		publisher, slog.New(slog.DiscardHandler))
}

func sampleResult(t *testing.T) *forecast.Result {
	t.Helper()
	fc, err := domain.BuildStationForecast("DKI1 (Bunderan HI)", -6.193, 106.820,
		[]float64{110, 108, 106, 104, 102, 100})
	require.NoError(t, err)
	return &forecast.Result{
		Scenario:    domain.DefaultScenario(),
		GeneratedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Stations:    map[string]domain.StationForecast{fc.Station: fc},
		Skipped: []domain.SkippedStation{
			{Station: "DKI3 (Jagakarsa)", Reason: domain.SkipNoHistoricalData, Detail: "no historical data"},
		},
	}
}

func TestForecast_BodyScenario(t *testing.T) {
	runner := &mockRunner{result: sampleResult(t)}
	srv := newTestServer(runner, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/forecast",
		strings.NewReader(`{"evAdoption":60,"emissionRegulation":70,"greenArea":10,"carbonCapture":5}`))

	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Scenario{EVAdoption: 60, EmissionRegulation: 70, GreenArea: 10, CarbonCapture: 5},
		runner.lastScenario)

	var body struct {
		GeneratedAt time.Time `json:"generated_at"`
		Stations    map[string]struct {
			AvgAQI float64 `json:"avg_aqi"`
			Risk   string  `json:"risk"`
			Color  string  `json:"color"`
			Points []struct {
				Year int     `json:"year"`
				AQI  float64 `json:"aqi"`
				Risk string  `json:"risk"`
			} `json:"points"`
		} `json:"stations"`
		Skipped []domain.SkippedStation `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Contains(t, body.Stations, "DKI1 (Bunderan HI)")
	station := body.Stations["DKI1 (Bunderan HI)"]
	require.Len(t, station.Points, 6)
	assert.Equal(t, 2025, station.Points[0].Year)
	assert.Equal(t, 2030, station.Points[5].Year)

	// Risk recomputed from values at response time.
	assert.Equal(t, "high", station.Points[0].Risk) // 110 × 1.0
	assert.Equal(t, "moderate", station.Points[5].Risk)
	assert.Equal(t, string(domain.ClassifyAQI(station.AvgAQI)), station.Risk)
	assert.NotEmpty(t, station.Color)

	require.Len(t, body.Skipped, 1)
	assert.Equal(t, "DKI3 (Jagakarsa)", body.Skipped[0].Station)
}

func TestForecast_EmptyBodyUsesBaseline(t *testing.T) {
	runner := &mockRunner{}
	srv := newTestServer(runner, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/forecast", nil)
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.DefaultScenario(), runner.lastScenario)
}

func TestForecast_InvalidScenarioReturns400(t *testing.T) {
	runner := &mockRunner{err: fmt.Errorf("%w: evAdoption=150 outside [0,100]", domain.ErrInvalidScenario)}
	srv := newTestServer(runner, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/forecast", strings.NewReader(`{"evAdoption":150}`))
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "evAdoption")
}

func TestForecast_MalformedJSONReturns400(t *testing.T) {
	srv := newTestServer(&mockRunner{}, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/forecast", strings.NewReader("not-json{{{"))
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForecast_RunnerErrorReturns500(t *testing.T) {
	runner := &mockRunner{err: errors.New("engine broke")}
	srv := newTestServer(runner, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/forecast", nil)
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestForecast_PublishesResult(t *testing.T) {
	pub := &mockPublisher{}
	srv := newTestServer(&mockRunner{result: sampleResult(t)}, nil, pub)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/forecast", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, pub.published)
}

func TestForecast_PublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &mockPublisher{err: errors.New("kafka down")}
	srv := newTestServer(&mockRunner{result: sampleResult(t)}, nil, pub)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/forecast", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStations(t *testing.T) {
	srv := newTestServer(&mockRunner{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/stations", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stations []stations.Station `json:"stations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Stations, 5)
	assert.Equal(t, "DKI1 (Bunderan HI)", body.Stations[0].ID)
	assert.Equal(t, -6.193, body.Stations[0].Latitude)
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockRunner{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockRunner{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockRunner{}, errors.New("no station profiles loaded"), nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no station profiles loaded", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockRunner{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
