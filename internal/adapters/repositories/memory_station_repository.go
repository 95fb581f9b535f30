package repositories

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
	"sort"
	"strings"
	"sync"
	"time"
)

// In-memory implementation of the StationStore port.
// Used for local runs without Postgres and by tests. Safe for concurrent use.
type MemoryStationRepository struct {
	mu          sync.RWMutex
	stations    map[int64]domain.Station
	prices      map[int64][]domain.PriceObservation
	nextStation int64
	nextPrice   int64
	now         func() time.Time
}

func NewMemoryStationRepository() *MemoryStationRepository {
	return &MemoryStationRepository{
		stations: make(map[int64]domain.Station),
		prices:   make(map[int64][]domain.PriceObservation),
		now:      time.Now,
	}
}

// NewMemoryStationRepositoryFromSeeds loads seed data into a fresh repository.
func NewMemoryStationRepositoryFromSeeds(seeds []StationSeed) (*MemoryStationRepository, error) {
	repo := NewMemoryStationRepository()
	for _, s := range seeds {
		st, err := repo.CreateStation(context.Background(), s.Name, domain.Coordinates{Lat: s.Latitude, Lon: s.Longitude})
		if err != nil {
			return nil, fmt.Errorf("memory seed: %w", err)
		}
		for _, p := range s.Prices {
			at := repo.now()
			if p.RecordedAt != nil {
				at = *p.RecordedAt
			}
			repo.AddPriceAt(st.ID, p.Price, at)
		}
	}
	return repo, nil
}

func (m *MemoryStationRepository) ListStations(ctx context.Context) ([]domain.Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Station, 0, len(m.stations))
	for _, s := range m.stations {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (m *MemoryStationRepository) GetStation(ctx context.Context, id int64) (*domain.Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stations[id]
	if !ok {
		return nil, fmt.Errorf("get station id=%d: %w", id, domain.ErrNotFound)
	}

	return &s, nil
}

func (m *MemoryStationRepository) ListPrices(
	ctx context.Context,
	stationIDs []int64,
) (map[int64][]domain.PriceObservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[int64][]domain.PriceObservation, len(stationIDs))
	for _, id := range stationIDs {
		ps, ok := m.prices[id]
		if !ok || len(ps) == 0 {
			continue
		}
		cp := make([]domain.PriceObservation, len(ps))
		copy(cp, ps)
		domain.SortNewestFirst(cp)
		out[id] = cp
	}

	return out, nil
}

func (m *MemoryStationRepository) ListPricedStations(ctx context.Context) ([]domain.PricedStation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.PricedStation, 0, len(m.stations))
	for id, ps := range m.prices {
		if len(ps) == 0 {
			continue
		}
		latest := ps[0]
		for _, p := range ps[1:] {
			if p.Newer(latest) {
				latest = p
			}
		}
		out = append(out, domain.PricedStation{Station: m.stations[id], LatestPrice: latest.Price})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (m *MemoryStationRepository) CreateStation(
	ctx context.Context,
	name string,
	at domain.Coordinates,
) (*domain.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.stations {
		if s.Lat == at.Lat && s.Lon == at.Lon {
			return nil, fmt.Errorf("create station at %s: %w: a station already exists at these coordinates", at, domain.ErrConflict)
		}
	}

	m.nextStation++
	s := domain.Station{ID: m.nextStation, Name: strings.TrimSpace(name), Coordinates: at}
	m.stations[s.ID] = s

	return &s, nil
}

func (m *MemoryStationRepository) AddPrice(
	ctx context.Context,
	stationID int64,
	price float64,
) (*domain.PriceObservation, error) {
	m.mu.RLock()
	_, ok := m.stations[stationID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("add price: get station id=%d: %w", stationID, domain.ErrNotFound)
	}

	p := m.AddPriceAt(stationID, price, m.now())
	return &p, nil
}

// AddPriceAt appends an observation with an explicit timestamp.
// The station is assumed to exist.
func (m *MemoryStationRepository) AddPriceAt(stationID int64, price float64, at time.Time) domain.PriceObservation {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextPrice++
	p := domain.PriceObservation{ID: m.nextPrice, StationID: stationID, Price: price, RecordedAt: at}
	m.prices[stationID] = append(m.prices[stationID], p)

	return p
}
