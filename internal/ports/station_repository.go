package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Port: a boundary for reading stations and their prices from a data source.
type StationRepository interface {
	// Return every station ordered by id.
	ListStations(ctx context.Context) ([]domain.Station, error)
	// Return one station. A missing id wraps domain.ErrNotFound.
	GetStation(ctx context.Context, id int64) (*domain.Station, error)
	// Return all observations for the given stations keyed by station id.
	// Stations without observations are absent from the map.
	ListPrices(ctx context.Context, stationIDs []int64) (map[int64][]domain.PriceObservation, error)
	// Return stations with at least one observation and their latest price.
	ListPricedStations(ctx context.Context) ([]domain.PricedStation, error)
}

// Port: write side used by station registration and price reporting.
type StationWriter interface {
	// Register a station. Duplicate coordinates wrap domain.ErrConflict.
	CreateStation(ctx context.Context, name string, at domain.Coordinates) (*domain.Station, error)
	// Append a price observation. A missing station wraps domain.ErrNotFound.
	AddPrice(ctx context.Context, stationID int64, price float64) (*domain.PriceObservation, error)
}

// StationStore combines the read and write ports.
type StationStore interface {
	StationRepository
	StationWriter
}
