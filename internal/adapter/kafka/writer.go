// Package kafka publishes forecast results to the sink topic for downstream
// consumers (dashboards, archival). Publishing is optional and best-effort:
// the forecast response never depends on it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/aqi-forecast-service/internal/config"
	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
	"github.com/couchcryptid/aqi-forecast-service/internal/forecast"
)

// Writer produces forecast messages to a Kafka topic, one per station.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishResult serializes every station forecast in the run and publishes
// them in a single WriteMessages call.
func (w *Writer) PublishResult(ctx context.Context, result *forecast.Result) error {
	if len(result.Stations) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, 0, len(result.Stations))
	for _, fc := range result.Stations {
		msg, err := serializeToMessage(fc, result.GeneratedAt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a StationForecast into a Kafka message. The
// risk header is derived from the trajectory mean at publish time.
func serializeToMessage(fc domain.StationForecast, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(fc)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize station forecast: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fc.Station),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station", Value: []byte(fc.Station)},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
			{Key: "risk", Value: []byte(domain.ClassifyAQI(fc.AvgAQI))},
		},
	}, nil
}
