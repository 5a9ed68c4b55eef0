// Command genfixtures generates local development fixtures: a synthetic
// historical readings CSV for the five DKI stations and a linear model
// artifact with plausible coefficients. Output is deterministic for a given
// seed so fixtures can be regenerated reproducibly.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/couchcryptid/aqi-forecast-service/internal/adapter/model"
	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
	"github.com/couchcryptid/aqi-forecast-service/internal/stations"
)

// Per-station pollutant baselines, roughly matching the magnitudes of the
// cleaned Jakarta export: pm25, pm10, so2, co, o3, no2.
var stationBaselines = map[string]domain.FeatureVector{
	"DKI1 (Bunderan HI)":   {62, 78, 28, 12, 38, 42},
	"DKI2 (Kelapa Gading)": {58, 72, 24, 10, 35, 38},
	"DKI3 (Jagakarsa)":     {48, 60, 18, 8, 42, 28},
	"DKI4 (Lubang Buaya)":  {66, 84, 30, 14, 36, 45},
	"DKI5 (Kebon Jeruk)":   {55, 70, 22, 11, 40, 35},
}

func main() {
	csvPath := flag.String("csv", "cleaned_jakarta_aqi.csv", "output path for the historical CSV (.gz for compressed)")
	modelPath := flag.String("model", "jakarta_aqi_model.json", "output path for the model artifact")
	rows := flag.Int("rows", 120, "readings per station")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if err := writeCSV(*csvPath, *rows, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "genfixtures: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d stations × %d rows)\n", *csvPath, len(stationBaselines), *rows)

	if err := writeModel(*modelPath); err != nil {
		fmt.Fprintf(os.Stderr, "genfixtures: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *modelPath)
}

func writeCSV(path string, rows int, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var out io.Writer = f
	var gz *pgzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = pgzip.NewWriter(f)
		defer gz.Close()
		out = gz
	}

	w := csv.NewWriter(out)
	header := append([]string{"stasiun"}, domain.FeatureNames[:]...)
	if err := w.Write(header); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	for _, station := range stations.Default().IDs() {
		baseline := stationBaselines[station]
		for i := 0; i < rows; i++ {
			record := make([]string, 0, len(header))
			record = append(record, station)
			for _, base := range baseline {
				// ±20% jitter around the baseline, floored at zero.
				v := base * (0.8 + 0.4*rng.Float64())
				record = append(record, strconv.FormatFloat(v, 'f', 2, 64))
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func writeModel(path string) error {
	artifact := model.Artifact{
		ModelType:    "linear_regression",
		FeatureNames: domain.FeatureNames[:],
		// Hand-picked weights yielding AQI values in the 60–160 range for
		// the baselines above.
		Coefficients: []float64{0.9, 0.35, 0.25, 1.8, 0.2, 0.5},
		Intercept:    12.5,
	}
	artifact.Metrics.R2 = 0.87
	artifact.Metrics.MAE = 6.3

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
