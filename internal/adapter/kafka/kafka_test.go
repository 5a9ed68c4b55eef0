package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	generatedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fc, err := domain.BuildStationForecast("DKI1 (Bunderan HI)", -6.193, 106.820,
		[]float64{120, 118, 116, 114, 112, 110})
	require.NoError(t, err)

	msg, err := serializeToMessage(fc, generatedAt)
	require.NoError(t, err)

	assert.Equal(t, []byte("DKI1 (Bunderan HI)"), msg.Key)
	assert.Contains(t, string(msg.Value), `"station":"DKI1 (Bunderan HI)"`)
	assert.Contains(t, string(msg.Value), `"avg_aqi"`)

	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "station", msg.Headers[0].Key)
	assert.Equal(t, []byte("DKI1 (Bunderan HI)"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2025-03-01T12:00:00Z"), msg.Headers[1].Value)
	assert.Equal(t, "risk", msg.Headers[2].Key)
	assert.Equal(t, []byte("high"), msg.Headers[2].Value) // damped mean ≈ 106.8
}

func TestSerializeToMessage_RiskFromDampedMean(t *testing.T) {
	fc, err := domain.BuildStationForecast("DKI2", 0, 0, []float64{40, 40, 40, 40, 40, 40})
	require.NoError(t, err)

	msg, err := serializeToMessage(fc, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []byte("low"), msg.Headers[2].Value)
}
