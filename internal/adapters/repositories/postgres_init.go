package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"os"
	"strings"
	"time"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS stations (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		UNIQUE (latitude, longitude)
	);
	`

	createPricesQuery := `
	CREATE TABLE IF NOT EXISTS prices (
		id BIGSERIAL PRIMARY KEY,
		station_id BIGINT NOT NULL REFERENCES stations(id),
		price NUMERIC(10, 3) NOT NULL CHECK (price > 0),
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	createDirectionsCacheQuery := `
	CREATE TABLE IF NOT EXISTS directions_cache (
		cache_key TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_prices_station_recorded
	ON prices(station_id, recorded_at DESC, id DESC);
	`

	statements := []string{
		createStationsQuery,
		createPricesQuery,
		createDirectionsCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PriceSeed struct {
	Price      float64    `json:"price"`
	RecordedAt *time.Time `json:"recorded_at"`
}

type StationSeed struct {
	Name      string      `json:"name"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Prices    []PriceSeed `json:"prices"`
}

// LoadSeeds reads and validates station seed data from a JSON file.
func LoadSeeds(jsonPath string) ([]StationSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed stations: read %q: %w", jsonPath, err)
	}

	var data []StationSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed stations: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("seed stations: item at index %d: name cannot be empty", i+1)
		}
		at := domain.Coordinates{Lat: item.Latitude, Lon: item.Longitude}
		if err := at.Validate(); err != nil {
			return nil, fmt.Errorf("seed stations: item at index %d: %w", i+1, err)
		}
		for j, p := range item.Prices {
			if p.Price <= 0 {
				return nil, fmt.Errorf("seed stations: item at index %d: price #%d must be positive", i+1, j+1)
			}
		}
	}

	return data, nil
}

// Populate the database with station and price data from a JSON file.
// Stations whose coordinates already exist are left untouched.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	seeds, err := LoadSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertStation := `
	INSERT INTO stations (name, latitude, longitude)
	VALUES ($1, $2, $3)
	ON CONFLICT (latitude, longitude) DO NOTHING
	RETURNING id;
	`
	insertPrice := `
	INSERT INTO prices (station_id, price, recorded_at)
	VALUES ($1, $2, COALESCE($3, NOW()));
	`

	for _, s := range seeds {
		var id int64
		err := tx.QueryRowContext(ctx, insertStation, strings.TrimSpace(s.Name), s.Latitude, s.Longitude).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed stations: insert %q: %w", s.Name, err)
		}

		for _, p := range s.Prices {
			if _, err := tx.ExecContext(ctx, insertPrice, id, p.Price, p.RecordedAt); err != nil {
				return fmt.Errorf("seed stations: insert price station_id=%d: %w", id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stations: commit tx: %w", err)
	}

	return nil
}
