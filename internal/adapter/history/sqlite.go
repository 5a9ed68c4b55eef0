package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
)

// Store reads historical readings from a SQLite database with a `readings`
// table mirroring the CSV export columns.
type Store struct {
	db *sql.DB
}

// OpenSQLite opens the database read path.
func OpenSQLite(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history: %w", err)
	}
	return &Store{db: db}, nil
}

// Readings loads every historical reading.
func (s *Store) Readings(ctx context.Context) ([]domain.PollutantReading, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stasiun, pm25, pm10, so2, co, o3, no2 FROM readings`)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	var readings []domain.PollutantReading
	for rows.Next() {
		var r domain.PollutantReading
		if err := rows.Scan(&r.Station,
			&r.Features[domain.PM25], &r.Features[domain.PM10],
			&r.Features[domain.SO2], &r.Features[domain.CO],
			&r.Features[domain.O3], &r.Features[domain.NO2],
		); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}
	return readings, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
