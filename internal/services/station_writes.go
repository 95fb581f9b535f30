package services

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"math"
	"strings"
)

// Register a new station after validating its name and coordinates.
func RegisterStation(
	ctx context.Context,
	name string,
	at domain.Coordinates,
	w ports.StationWriter,
) (_ *domain.Station, err error) {
	defer obs.Time(ctx, "services.RegisterStation")(&err)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("register station: %w: name must not be empty", domain.ErrValidation)
	}
	if err := at.Validate(); err != nil {
		return nil, fmt.Errorf("register station: %w", err)
	}

	st, err := w.CreateStation(ctx, name, at)
	if err != nil {
		return nil, fmt.Errorf("register station: %w", err)
	}
	return st, nil
}

// Append a price observation to an existing station.
func ReportPrice(
	ctx context.Context,
	stationID int64,
	price float64,
	w ports.StationWriter,
) (_ *domain.PriceObservation, err error) {
	defer obs.Time(ctx, "services.ReportPrice")(&err)

	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return nil, fmt.Errorf("report price: %w: price must be a positive number", domain.ErrValidation)
	}

	p, err := w.AddPrice(ctx, stationID, price)
	if err != nil {
		return nil, fmt.Errorf("report price: %w", err)
	}
	return p, nil
}
