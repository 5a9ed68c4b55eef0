// Command forecastd serves the Jakarta AQI scenario-forecast API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/aqi-forecast-service/internal/adapter/history"
	"github.com/couchcryptid/aqi-forecast-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/aqi-forecast-service/internal/adapter/kafka"
	"github.com/couchcryptid/aqi-forecast-service/internal/adapter/model"
	"github.com/couchcryptid/aqi-forecast-service/internal/config"
	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
	"github.com/couchcryptid/aqi-forecast-service/internal/forecast"
	"github.com/couchcryptid/aqi-forecast-service/internal/observability"
	"github.com/couchcryptid/aqi-forecast-service/internal/stations"
)

func main() {
	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	profiles, err := loadProfiles(cfg, logger)
	if err != nil {
		logger.Error("failed to load historical data", "error", err)
		os.Exit(1)
	}
	logger.Info("station profiles built", "stations", len(profiles), "source", cfg.HistorySource)

	handle, err := model.NewHandle(regressorLoader(cfg, logger, metrics), logger, metrics)
	if err != nil {
		logger.Error("failed to load model", "error", err)
		os.Exit(1)
	}

	registry := stations.Default()
	engine := forecast.New(handle, profiles, registry, logger, metrics, cfg.ForecastParallelism)

	var publisher httpapi.ResultPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, engine, registry, engine, publisher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SIGHUP swaps in a freshly loaded model without a restart.
	go watchReload(ctx, handle, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// loadProfiles reads the historical table from the configured provider and
// folds it into per-station mean profiles.
func loadProfiles(cfg *config.Config, logger *slog.Logger) (map[string]domain.StationProfile, error) {
	var readings []domain.PollutantReading

	switch cfg.HistorySource {
	case "sqlite":
		store, err := history.OpenSQLite(cfg.HistorySQLitePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		readings, err = store.Readings(context.Background())
		if err != nil {
			return nil, err
		}
	default:
		var stats history.LoadStats
		var err error
		readings, stats, err = history.LoadCSV(cfg.HistoryCSVPath, logger)
		if err != nil {
			return nil, err
		}
		if stats.Skipped > 0 {
			logger.Warn("malformed history rows skipped", "skipped", stats.Skipped, "loaded", stats.Rows)
		}
	}

	return domain.BuildProfiles(readings), nil
}

// regressorLoader builds the decorated regressor stack for the configured
// provider. Handle re-invokes it on reload, so the prediction cache is
// rebuilt together with the model.
func regressorLoader(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) model.Loader {
	return func() (domain.Regressor, error) {
		var reg domain.Regressor
		if cfg.ModelSource == "remote" {
			reg = model.NewRemoteClient(cfg.ModelURL, cfg.ModelTimeout, logger, metrics)
		} else {
			linear, err := model.LoadLinear(cfg.ModelPath)
			if err != nil {
				return nil, err
			}
			reg = linear
		}

		if cfg.ModelMaxRPS > 0 {
			reg = model.NewThrottled(reg, cfg.ModelMaxRPS)
		}
		if cfg.PredictionCacheSize > 0 {
			reg = model.NewCached(reg, cfg.PredictionCacheSize, metrics)
		}
		return reg, nil
	}
}

func watchReload(ctx context.Context, handle *model.Handle, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := handle.Reload(); err != nil {
				logger.Error("model reload failed, keeping current model", "error", err)
			}
		}
	}
}
