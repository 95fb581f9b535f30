package services

import (
	"context"
	"fmt"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/domain"
	"testing"
	"time"
)

var baseTime = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

type stationFixture struct {
	name   string
	lat    float64
	lon    float64
	prices []float64
}

// newRepo builds a memory repository; each station's prices are recorded one
// hour apart so the last listed price is the latest.
func newRepo(t *testing.T, fixtures ...stationFixture) *repositories.MemoryStationRepository {
	t.Helper()

	repo := repositories.NewMemoryStationRepository()
	for _, f := range fixtures {
		st, err := repo.CreateStation(context.Background(), f.name, domain.Coordinates{Lat: f.lat, Lon: f.lon})
		if err != nil {
			t.Fatalf("create station %q: %v", f.name, err)
		}
		for i, p := range f.prices {
			repo.AddPriceAt(st.ID, p, baseTime.Add(time.Duration(i)*time.Hour))
		}
	}
	return repo
}

// failingRepo fails every read with a store error.
type failingRepo struct{}

func (failingRepo) ListStations(ctx context.Context) ([]domain.Station, error) {
	return nil, fmt.Errorf("list stations: %w", domain.ErrStore)
}

func (failingRepo) GetStation(ctx context.Context, id int64) (*domain.Station, error) {
	return nil, fmt.Errorf("get station: %w", domain.ErrStore)
}

func (failingRepo) ListPrices(ctx context.Context, ids []int64) (map[int64][]domain.PriceObservation, error) {
	return nil, fmt.Errorf("list prices: %w", domain.ErrStore)
}

func (failingRepo) ListPricedStations(ctx context.Context) ([]domain.PricedStation, error) {
	return nil, fmt.Errorf("list priced stations: %w", domain.ErrStore)
}

func ptrFloat(v float64) *float64 { return &v }

func ptrInt(v int) *int { return &v }
