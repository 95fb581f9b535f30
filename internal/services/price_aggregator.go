package services

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
)

// Return one station with its newest-first price history.
//
// A station with no observations yields an empty history and a nil latest
// price; that is not an error.
func GetStationHistory(
	ctx context.Context,
	id int64,
	repo ports.StationRepository,
) (_ *domain.StationWithHistory, err error) {
	defer obs.Time(ctx, "services.GetStationHistory")(&err)

	st, err := repo.GetStation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get station history: %w", err)
	}

	prices, err := repo.ListPrices(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("get station history: list prices for station %d: %w", id, err)
	}

	h := domain.NewStationWithHistory(*st, prices[id])
	return &h, nil
}

// Return every station ordered by id, each with its history.
// Prices are read in one batch for all stations.
func ListStationHistories(
	ctx context.Context,
	repo ports.StationRepository,
) (_ []domain.StationWithHistory, err error) {
	defer obs.Time(ctx, "services.ListStationHistories")(&err)

	stations, err := repo.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list station histories: %w", err)
	}

	if len(stations) == 0 {
		return []domain.StationWithHistory{}, nil
	}

	ids := make([]int64, 0, len(stations))
	for _, s := range stations {
		ids = append(ids, s.ID)
	}

	prices, err := repo.ListPrices(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list station histories: list prices: %w", err)
	}

	out := make([]domain.StationWithHistory, 0, len(stations))
	for _, s := range stations {
		out = append(out, domain.NewStationWithHistory(s, prices[s.ID]))
	}

	return out, nil
}

// Return only the newest-first price history of a station.
func GetPriceHistory(
	ctx context.Context,
	id int64,
	repo ports.StationRepository,
) ([]domain.PriceObservation, error) {
	h, err := GetStationHistory(ctx, id, repo)
	if err != nil {
		return nil, fmt.Errorf("get price history: %w", err)
	}
	return h.Prices, nil
}
