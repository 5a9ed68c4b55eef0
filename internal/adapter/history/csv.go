// Package history provides read-only historical pollutant data providers:
// the cleaned CSV export (plain or gzip-compressed) and a SQLite database.
package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
)

// maxRowWarnings caps per-file malformed-row log lines; the rest are only
// counted in LoadStats.
const maxRowWarnings = 5

// LoadStats summarizes one historical load.
type LoadStats struct {
	Rows     int // readings loaded
	Skipped  int // malformed rows dropped
	Stations int // distinct stations seen
}

// LoadCSV reads historical pollutant readings from the cleaned export.
// Files ending in .gz are decompressed with pgzip. The station column may
// be named "stasiun" (upstream export header) or "station". Malformed rows
// are skipped and counted, never fatal.
func LoadCSV(path string, logger *slog.Logger) ([]domain.PollutantReading, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open history csv: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, LoadStats{}, fmt.Errorf("open gzip history csv: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return readCSV(r, logger)
}

func readCSV(r io.Reader, logger *slog.Logger) ([]domain.PollutantReading, LoadStats, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("read history csv header: %w", err)
	}
	cols, err := columnIndexes(header)
	if err != nil {
		return nil, LoadStats{}, err
	}

	var (
		readings []domain.PollutantReading
		stats    LoadStats
		stations = map[string]struct{}{}
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, LoadStats{}, fmt.Errorf("read history csv: %w", err)
		}

		reading, err := parseRecord(record, cols)
		if err != nil {
			stats.Skipped++
			if stats.Skipped <= maxRowWarnings {
				logger.Warn("skipping malformed history row", "error", err)
			}
			continue
		}
		readings = append(readings, reading)
		stations[reading.Station] = struct{}{}
		stats.Rows++
	}
	stats.Stations = len(stations)
	return readings, stats, nil
}

// columnIndexes maps required columns to their positions, tolerating extra
// columns and arbitrary ordering.
func columnIndexes(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cols := make(map[string]int, domain.NumPollutants+1)
	if i, ok := byName["stasiun"]; ok {
		cols["station"] = i
	} else if i, ok := byName["station"]; ok {
		cols["station"] = i
	} else {
		return nil, fmt.Errorf("history csv missing station column (stasiun)")
	}

	for _, name := range domain.FeatureNames {
		i, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("history csv missing column %q", name)
		}
		cols[name] = i
	}
	return cols, nil
}

func parseRecord(record []string, cols map[string]int) (domain.PollutantReading, error) {
	reading := domain.PollutantReading{}

	idx := cols["station"]
	if idx >= len(record) || strings.TrimSpace(record[idx]) == "" {
		return reading, fmt.Errorf("missing station value")
	}
	reading.Station = strings.TrimSpace(record[idx])

	for p, name := range domain.FeatureNames {
		idx := cols[name]
		if idx >= len(record) {
			return reading, fmt.Errorf("row too short for column %q", name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
		if err != nil {
			return reading, fmt.Errorf("parse %s: %w", name, err)
		}
		if v < 0 {
			return reading, fmt.Errorf("negative %s concentration %g", name, v)
		}
		reading.Features[p] = v
	}
	return reading, nil
}
