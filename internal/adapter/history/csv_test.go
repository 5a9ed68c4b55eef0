package history

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
)

const sampleCSV = `stasiun,pm25,pm10,so2,co,o3,no2
DKI1 (Bunderan HI),50,40,10,5,20,30
DKI1 (Bunderan HI),60,50,12,7,22,32
DKI2 (Kelapa Gading),70,55,15,8,25,35
`

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTempCSV(t, "history.csv", sampleCSV)

	readings, stats, err := LoadCSV(path, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	require.Len(t, readings, 3)
	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 2, stats.Stations)

	assert.Equal(t, "DKI1 (Bunderan HI)", readings[0].Station)
	assert.Equal(t, domain.FeatureVector{50, 40, 10, 5, 20, 30}, readings[0].Features)
}

func TestLoadCSV_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := pgzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	readings, stats, err := LoadCSV(path, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Len(t, readings, 3)
	assert.Equal(t, 3, stats.Rows)
}

func TestLoadCSV_StationAliasAndColumnOrder(t *testing.T) {
	// Reordered columns and "station" instead of "stasiun".
	path := writeTempCSV(t, "history.csv", `no2,station,pm10,pm25,so2,o3,co
30,DKI3 (Jagakarsa),40,50,10,20,5
`)

	readings, _, err := LoadCSV(path, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, "DKI3 (Jagakarsa)", readings[0].Station)
	assert.Equal(t, domain.FeatureVector{50, 40, 10, 5, 20, 30}, readings[0].Features)
}

func TestLoadCSV_SkipsMalformedRows(t *testing.T) {
	path := writeTempCSV(t, "history.csv", `stasiun,pm25,pm10,so2,co,o3,no2
DKI1,50,40,10,5,20,30
DKI1,not-a-number,40,10,5,20,30
,50,40,10,5,20,30
DKI1,-5,40,10,5,20,30
DKI2,70,55,15,8,25,35
`)

	readings, stats, err := LoadCSV(path, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Len(t, readings, 2)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 2, stats.Stations)
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, "history.csv", "stasiun,pm25,pm10,so2,co,o3\nDKI1,1,2,3,4,5\n")
	_, _, err := LoadCSV(path, slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no2")
}

func TestLoadCSV_MissingStationColumn(t *testing.T) {
	path := writeTempCSV(t, "history.csv", "pm25,pm10,so2,co,o3,no2\n1,2,3,4,5,6\n")
	_, _, err := LoadCSV(path, slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stasiun")
}

func TestLoadCSV_FileMissing(t *testing.T) {
	_, _, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"), slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}
