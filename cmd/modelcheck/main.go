// Command modelcheck validates a model artifact or remote model server
// before deployment: feature layout, probe predictions, and basic sanity of
// the predicted range. Exits non-zero when any check fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/aqi-forecast-service/internal/adapter/model"
	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
	"github.com/couchcryptid/aqi-forecast-service/internal/observability"
)

// probes are feature vectors spanning the plausible input range: clean air,
// a typical Jakarta day, and a heavy-pollution episode.
var probes = []struct {
	name     string
	features domain.FeatureVector
}{
	{"zero", domain.FeatureVector{}},
	{"typical", domain.FeatureVector{55, 70, 22, 10, 38, 36}},
	{"episode", domain.FeatureVector{180, 220, 85, 40, 90, 110}},
}

func main() {
	modelPath := flag.String("model", "", "path to a model artifact JSON")
	modelURL := flag.String("url", "", "base URL of a remote model server")
	timeout := flag.Duration("timeout", 5*time.Second, "remote request timeout")
	flag.Parse()

	if (*modelPath == "") == (*modelURL == "") {
		fmt.Fprintln(os.Stderr, "modelcheck: exactly one of -model or -url is required")
		os.Exit(2)
	}

	reg, err := buildRegressor(*modelPath, *modelURL, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "modelcheck: load: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("model provider: %s\n", reg.Name())

	if failures := runChecks(reg, *timeout); failures > 0 {
		fmt.Printf("\n%d check(s) FAILED\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nall checks passed")
}

func buildRegressor(path, url string, timeout time.Duration) (domain.Regressor, error) {
	if url != "" {
		logger := slog.New(slog.DiscardHandler)
		return model.NewRemoteClient(url, timeout, logger, observability.NewMetrics()), nil
	}
	return model.LoadLinear(path)
}

func runChecks(reg domain.Regressor, timeout time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	matrix := make([]domain.FeatureVector, len(probes))
	for i, p := range probes {
		matrix[i] = p.features
	}

	preds, err := reg.Predict(ctx, matrix)
	if err != nil {
		fmt.Printf("FAIL predict: %v\n", err)
		return 1
	}
	if len(preds) != len(probes) {
		fmt.Printf("FAIL predict: %d predictions for %d probes\n", len(preds), len(probes))
		return 1
	}

	failures := 0
	for i, p := range probes {
		v := preds[i]
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			fmt.Printf("FAIL probe %-8s prediction is not finite: %v\n", p.name, v)
			failures++
		case v < -50 || v > 1000:
			fmt.Printf("FAIL probe %-8s prediction %.1f outside plausible AQI range\n", p.name, v)
			failures++
		default:
			fmt.Printf("ok   probe %-8s aqi=%.1f risk=%s\n", p.name, v, domain.ClassifyAQI(v))
		}
	}

	// Predictions should not decrease when every pollutant increases.
	if preds[len(preds)-1] <= preds[0] {
		fmt.Printf("FAIL monotonicity: episode probe (%.1f) not above zero probe (%.1f)\n",
			preds[len(preds)-1], preds[0])
		failures++
	}

	return failures
}
