// Package forecast orchestrates scenario forecast runs: projecting station
// profiles, invoking the regressor, applying the damping trend, and
// collecting per-station trajectories with skip reporting.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
	"github.com/couchcryptid/aqi-forecast-service/internal/observability"
	"github.com/couchcryptid/aqi-forecast-service/internal/stations"
)

// Engine runs forecasts over the loaded station profiles. Profiles and the
// registry are immutable after construction; the regressor is shared
// read-only across station computations, so runs need no locking beyond the
// result collection.
type Engine struct {
	regressor   domain.Regressor
	profiles    map[string]domain.StationProfile
	registry    *stations.Registry
	logger      *slog.Logger
	metrics     *observability.Metrics
	parallelism int
}

// New creates an Engine.
func New(regressor domain.Regressor, profiles map[string]domain.StationProfile,
	registry *stations.Registry, logger *slog.Logger, metrics *observability.Metrics,
	parallelism int) *Engine {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Engine{
		regressor:   regressor,
		profiles:    profiles,
		registry:    registry,
		logger:      logger,
		metrics:     metrics,
		parallelism: parallelism,
	}
}

// Result is the outcome of one forecast run, owned by the caller. Stations
// is keyed by identifier; consumers must tolerate stations being absent and
// listed in Skipped instead.
type Result struct {
	Scenario    domain.Scenario
	GeneratedAt time.Time
	Stations    map[string]domain.StationForecast
	Skipped     []domain.SkippedStation
}

// CheckReadiness reports whether the engine can serve forecasts.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if len(e.profiles) == 0 {
		return errors.New("no station profiles loaded")
	}
	return nil
}

// Run computes one forecast for the scenario. Scenario validation failure
// rejects the whole run; after that there are no run-fatal errors short of
// context cancellation, and partial results with skipped stations are a
// valid outcome.
func (e *Engine) Run(ctx context.Context, scenario domain.Scenario) (*Result, error) {
	if err := scenario.Validate(); err != nil {
		e.metrics.RunsRejected.Inc()
		return nil, err
	}
	e.metrics.ForecastRuns.Inc()
	start := time.Now()

	result := &Result{
		Scenario:    scenario,
		GeneratedAt: domain.Now(),
		Stations:    make(map[string]domain.StationForecast),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for _, id := range e.stationIDs() {
		g.Go(func() error {
			fc, skip, err := e.forecastStation(gctx, id, scenario)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if skip != nil {
				result.Skipped = append(result.Skipped, *skip)
				return nil
			}
			result.Stations[id] = fc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Station < result.Skipped[j].Station
	})

	e.metrics.RunDuration.Observe(time.Since(start).Seconds())
	e.metrics.StationsForecast.Add(float64(len(result.Stations)))
	for _, s := range result.Skipped {
		e.metrics.StationsSkipped.WithLabelValues(string(s.Reason)).Inc()
	}

	e.logger.Info("forecast run complete",
		"stations", len(result.Stations),
		"skipped", len(result.Skipped),
		"duration", time.Since(start),
	)
	return result, nil
}

// stationIDs is the union of registry stations and stations present in the
// historical data: registry stations without data are reported skipped, and
// data-only stations get fallback coordinates.
func (e *Engine) stationIDs() []string {
	seen := make(map[string]struct{}, len(e.profiles))
	ids := e.registry.IDs()
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for id := range e.profiles {
		if _, ok := seen[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// forecastStation computes one station's trajectory. A non-nil error is
// returned only for context cancellation; per-station failures come back as
// a skip record so other stations proceed independently.
func (e *Engine) forecastStation(ctx context.Context, id string, scenario domain.Scenario) (domain.StationForecast, *domain.SkippedStation, error) {
	profile, ok := e.profiles[id]
	if !ok {
		e.logger.Warn("no historical data for station, skipping", "station", id)
		return domain.StationForecast{}, &domain.SkippedStation{
			Station: id,
			Reason:  domain.SkipNoHistoricalData,
			Detail:  domain.ErrNoHistoricalData.Error(),
		}, nil
	}

	features, err := scenario.Project(profile)
	if err != nil {
		// Scenario was validated at run start and the profile exists, so
		// this is unreachable short of a programming error.
		return domain.StationForecast{}, nil, fmt.Errorf("project station %q: %w", id, err)
	}

	preds, err := e.regressor.Predict(ctx, features[:])
	if err != nil {
		if ctx.Err() != nil {
			return domain.StationForecast{}, nil, ctx.Err()
		}
		e.logger.Warn("model inference failed, skipping station",
			"station", id,
			"model", e.regressor.Name(),
			"error", err,
		)
		return domain.StationForecast{}, &domain.SkippedStation{
			Station: id,
			Reason:  domain.SkipModelInference,
			Detail:  err.Error(),
		}, nil
	}

	lat, lon := e.registry.Coordinates(id)
	fc, err := domain.BuildStationForecast(id, lat, lon, preds)
	if err != nil {
		e.logger.Warn("model returned malformed predictions, skipping station",
			"station", id,
			"model", e.regressor.Name(),
			"error", err,
		)
		return domain.StationForecast{}, &domain.SkippedStation{
			Station: id,
			Reason:  domain.SkipModelInference,
			Detail:  err.Error(),
		}, nil
	}
	return fc, nil, nil
}
