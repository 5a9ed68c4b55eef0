package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Historical data provider.
	HistorySource     string // "csv" or "sqlite"
	HistoryCSVPath    string
	HistorySQLitePath string

	// Model provider.
	ModelSource         string // "file" or "remote"
	ModelPath           string
	ModelURL            string
	ModelTimeout        time.Duration
	ModelMaxRPS         float64 // 0 disables throttling
	PredictionCacheSize int

	ForecastParallelism int

	// Optional Kafka publishing of forecast results.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	modelTimeout, err := parseDurationEnv("MODEL_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	maxRPS, err := parseMaxRPS()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		HistorySource:     envOrDefault("HISTORY_SOURCE", "csv"),
		HistoryCSVPath:    envOrDefault("HISTORY_CSV_PATH", "cleaned_jakarta_aqi.csv"),
		HistorySQLitePath: os.Getenv("HISTORY_SQLITE_PATH"),

		ModelSource:         envOrDefault("MODEL_SOURCE", "file"),
		ModelPath:           envOrDefault("MODEL_PATH", "jakarta_aqi_model.json"),
		ModelURL:            os.Getenv("MODEL_URL"),
		ModelTimeout:        modelTimeout,
		ModelMaxRPS:         maxRPS,
		PredictionCacheSize: parsePositiveIntOrDefault("PREDICTION_CACHE_SIZE", 1000),

		ForecastParallelism: parsePositiveIntOrDefault("FORECAST_PARALLELISM", 5),

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "aqi-forecasts"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.HistorySource {
	case "csv":
		if c.HistoryCSVPath == "" {
			return errors.New("HISTORY_CSV_PATH is required when HISTORY_SOURCE=csv")
		}
	case "sqlite":
		if c.HistorySQLitePath == "" {
			return errors.New("HISTORY_SQLITE_PATH is required when HISTORY_SOURCE=sqlite")
		}
	default:
		return fmt.Errorf("invalid HISTORY_SOURCE %q (want csv or sqlite)", c.HistorySource)
	}

	switch c.ModelSource {
	case "file":
		if c.ModelPath == "" {
			return errors.New("MODEL_PATH is required when MODEL_SOURCE=file")
		}
	case "remote":
		if c.ModelURL == "" {
			return errors.New("MODEL_URL is required when MODEL_SOURCE=remote")
		}
	default:
		return fmt.Errorf("invalid MODEL_SOURCE %q (want file or remote)", c.ModelSource)
	}

	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
		}
		if c.KafkaSinkTopic == "" {
			return errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED=true")
		}
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveIntOrDefault(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func parseMaxRPS() (float64, error) {
	s := os.Getenv("MODEL_MAX_RPS")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, errors.New("invalid MODEL_MAX_RPS")
	}
	return v, nil
}
