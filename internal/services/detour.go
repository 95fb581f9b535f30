package services

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"math"
	"sort"
)

const DefaultMaxDetourKm = 20.0

// Keep the stations whose detour from the origin-destination path is within
// maxDetourKm. The comparison is inclusive and uses the unrounded detour;
// the returned DetourKm is rounded to two decimals.
func FilterByDetour(
	origin domain.Coordinates,
	destination domain.Coordinates,
	candidates []domain.PricedStation,
	maxDetourKm float64,
) []domain.Waypoint {
	out := make([]domain.Waypoint, 0, len(candidates))
	for _, c := range candidates {
		detour := domain.DetourKm(origin, c.Coordinates, destination)
		if detour > maxDetourKm {
			continue
		}
		out = append(out, domain.Waypoint{
			Station:     c.Station,
			LatestPrice: c.LatestPrice,
			DetourKm:    domain.Round(detour, 2),
		})
	}

	return out
}

// Sort by latest price ascending, breaking ties by station id ascending.
func SortByPrice(waypoints []domain.Waypoint) {
	sort.SliceStable(waypoints, func(i, j int) bool {
		if waypoints[i].LatestPrice != waypoints[j].LatestPrice {
			return waypoints[i].LatestPrice < waypoints[j].LatestPrice
		}
		return waypoints[i].ID < waypoints[j].ID
	})
}

// Return the n cheapest waypoints in price order. n larger than the input
// returns all of them.
func SelectCheapest(waypoints []domain.Waypoint, n int) []domain.Waypoint {
	sorted := make([]domain.Waypoint, len(waypoints))
	copy(sorted, waypoints)
	SortByPrice(sorted)

	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Request shape for a detour-only search.
type PitStopRequest struct {
	Origin      domain.Coordinates
	Destination domain.Coordinates
	MaxDetourKm *float64
}

func (r PitStopRequest) maxDetour() float64 {
	if r.MaxDetourKm == nil {
		return DefaultMaxDetourKm
	}
	return *r.MaxDetourKm
}

func (r PitStopRequest) Validate() error {
	if err := r.Origin.Validate(); err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	if err := r.Destination.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if md := r.maxDetour(); math.IsNaN(md) || math.IsInf(md, 0) || md < 0 {
		return fmt.Errorf("%w: max_detour_km must be a finite number >= 0", domain.ErrValidation)
	}
	return nil
}

// Return every priced station within the detour budget, cheapest first.
// No directions are requested.
func PitStops(
	ctx context.Context,
	req PitStopRequest,
	repo ports.StationRepository,
) (_ []domain.Waypoint, err error) {
	defer obs.Time(ctx, "services.PitStops")(&err)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("pit stops: %w", err)
	}

	candidates, err := repo.ListPricedStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("pit stops: %w", err)
	}

	stops := FilterByDetour(req.Origin, req.Destination, candidates, req.maxDetour())
	SortByPrice(stops)

	return stops, nil
}
