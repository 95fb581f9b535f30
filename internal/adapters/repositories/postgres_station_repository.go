package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// Postgres-backed implementation of the StationStore port.
type PostgresStationRepository struct{ DB *sql.DB }

func NewPostgresStationRepository(db *sql.DB) *PostgresStationRepository {
	return &PostgresStationRepository{DB: db}
}

func (s *PostgresStationRepository) check() error {
	if s.DB == nil {
		return fmt.Errorf("postgres station repository: %w: DB is nil", domain.ErrStore)
	}
	return nil
}

// Return all stations ordered by id.
func (s *PostgresStationRepository) ListStations(ctx context.Context) (_ []domain.Station, err error) {
	defer obs.Time(ctx, "stations.repo.ListStations")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	query := `
	SELECT id, name, latitude, longitude
	FROM stations
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stations: query stations table: %w: %w", domain.ErrStore, err)
	}
	defer rows.Close()

	stations := make([]domain.Station, 0, 64)
	for rows.Next() {
		var st domain.Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Lat, &st.Lon); err != nil {
			return nil, fmt.Errorf("list stations: scan row: %w: %w", domain.ErrStore, err)
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: row iteration: %w: %w", domain.ErrStore, err)
	}

	return stations, nil
}

// Return a single station by id.
func (s *PostgresStationRepository) GetStation(ctx context.Context, id int64) (*domain.Station, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	query := `
	SELECT id, name, latitude, longitude
	FROM stations
	WHERE id = $1;
	`
	var st domain.Station
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&st.ID, &st.Name, &st.Lat, &st.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get station id=%d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get station id=%d: %w: %w", id, domain.ErrStore, err)
	}

	return &st, nil
}

// Return every price observation for the given stations.
func (s *PostgresStationRepository) ListPrices(
	ctx context.Context,
	stationIDs []int64,
) (_ map[int64][]domain.PriceObservation, err error) {
	defer obs.Time(ctx, "stations.repo.ListPrices")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	if len(stationIDs) == 0 {
		return map[int64][]domain.PriceObservation{}, nil
	}

	query := `
	SELECT id, station_id, price::float8, recorded_at
	FROM prices
	WHERE station_id = ANY($1::bigint[])
	ORDER BY station_id, recorded_at DESC, id DESC;
	`
	rows, err := s.DB.QueryContext(ctx, query, stationIDs)
	if err != nil {
		return nil, fmt.Errorf("list prices: query prices table: %w: %w", domain.ErrStore, err)
	}
	defer rows.Close()

	out := make(map[int64][]domain.PriceObservation, len(stationIDs))
	for rows.Next() {
		var p domain.PriceObservation
		if err := rows.Scan(&p.ID, &p.StationID, &p.Price, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("list prices: scan row: %w: %w", domain.ErrStore, err)
		}
		out[p.StationID] = append(out[p.StationID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list prices: row iteration: %w: %w", domain.ErrStore, err)
	}

	return out, nil
}

// Return stations that carry at least one price, with the latest one.
func (s *PostgresStationRepository) ListPricedStations(ctx context.Context) (_ []domain.PricedStation, err error) {
	defer obs.Time(ctx, "stations.repo.ListPricedStations")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	// DISTINCT ON keeps the first row per station under the ORDER BY,
	// which matches the latest-price tie-break (recorded_at, then id).
	query := `
	SELECT s.id, s.name, s.latitude, s.longitude, latest.price
	FROM stations s
	JOIN (
		SELECT DISTINCT ON (station_id) station_id, price::float8 AS price
		FROM prices
		ORDER BY station_id, recorded_at DESC, id DESC
	) latest ON latest.station_id = s.id
	ORDER BY s.id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list priced stations: query: %w: %w", domain.ErrStore, err)
	}
	defer rows.Close()

	stations := make([]domain.PricedStation, 0, 64)
	for rows.Next() {
		var ps domain.PricedStation
		if err := rows.Scan(&ps.ID, &ps.Name, &ps.Lat, &ps.Lon, &ps.LatestPrice); err != nil {
			return nil, fmt.Errorf("list priced stations: scan row: %w: %w", domain.ErrStore, err)
		}
		stations = append(stations, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list priced stations: row iteration: %w: %w", domain.ErrStore, err)
	}

	return stations, nil
}

// Register a new station.
func (s *PostgresStationRepository) CreateStation(
	ctx context.Context,
	name string,
	at domain.Coordinates,
) (*domain.Station, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	query := `
	INSERT INTO stations (name, latitude, longitude)
	VALUES ($1, $2, $3)
	RETURNING id, name, latitude, longitude;
	`
	var st domain.Station
	err := s.DB.QueryRowContext(ctx, query, strings.TrimSpace(name), at.Lat, at.Lon).
		Scan(&st.ID, &st.Name, &st.Lat, &st.Lon)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("create station at %s: %w: a station already exists at these coordinates", at, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create station: %w: %w", domain.ErrStore, err)
	}

	return &st, nil
}

// Append a price observation to an existing station.
func (s *PostgresStationRepository) AddPrice(
	ctx context.Context,
	stationID int64,
	price float64,
) (*domain.PriceObservation, error) {
	if _, err := s.GetStation(ctx, stationID); err != nil {
		return nil, fmt.Errorf("add price: %w", err)
	}

	query := `
	INSERT INTO prices (station_id, price)
	VALUES ($1, $2)
	RETURNING id, station_id, price::float8, recorded_at;
	`
	var p domain.PriceObservation
	err := s.DB.QueryRowContext(ctx, query, stationID, price).Scan(&p.ID, &p.StationID, &p.Price, &p.RecordedAt)
	if err != nil {
		return nil, fmt.Errorf("add price station_id=%d: %w: %w", stationID, domain.ErrStore, err)
	}

	return &p, nil
}
