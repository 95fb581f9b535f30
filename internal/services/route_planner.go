package services

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"math"
)

const DefaultNumStations = 3

// Input for PlanRoute. Nil optional fields take their defaults.
type PlanRouteRequest struct {
	Origin          domain.Coordinates
	Destination     domain.Coordinates
	MaxDetourKm     *float64
	NumStations     *int
	OrderByDistance bool
}

func (r PlanRouteRequest) maxDetour() float64 {
	if r.MaxDetourKm == nil {
		return DefaultMaxDetourKm
	}
	return *r.MaxDetourKm
}

func (r PlanRouteRequest) numStations() int {
	if r.NumStations == nil {
		return DefaultNumStations
	}
	return *r.NumStations
}

func (r PlanRouteRequest) Validate() error {
	if err := r.Origin.Validate(); err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	if err := r.Destination.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if md := r.maxDetour(); math.IsNaN(md) || math.IsInf(md, 0) || md < 0 {
		return fmt.Errorf("%w: max_detour_km must be a finite number >= 0", domain.ErrValidation)
	}
	if r.numStations() < 0 {
		return fmt.Errorf("%w: num_stations must be >= 0", domain.ErrValidation)
	}
	return nil
}

// Plan a driving route from origin to destination through the cheapest
// stations within the detour budget.
//
// Candidate stations are those with at least one price observation. The
// selected stations are passed to the directions provider in price order
// unless OrderByDistance is set. The provider is called even when no station
// qualifies. Any provider failure fails the whole plan; missing provider
// credentials are reported before the store is read.
func PlanRoute(
	ctx context.Context,
	req PlanRouteRequest,
	repo ports.StationRepository,
	directions ports.DirectionsProvider,
) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "services.PlanRoute")(&err)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	// A provider that cannot serve the call fails the plan before any store read.
	if r, ok := directions.(ports.DirectionsReadiness); ok {
		if err := r.Ready(); err != nil {
			return nil, fmt.Errorf("plan route: %w", err)
		}
	}

	candidates, err := repo.ListPricedStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	passing := FilterByDetour(req.Origin, req.Destination, candidates, req.maxDetour())
	waypoints := SelectCheapest(passing, req.numStations())

	if req.OrderByDistance {
		waypoints = NearestNeighborOrder(req.Origin, waypoints)
	}

	coords := make([]domain.Coordinates, 0, len(waypoints))
	for _, w := range waypoints {
		coords = append(coords, w.Coordinates)
	}

	route, err := directions.GetDirections(ctx, ports.DirectionsRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Waypoints:   coords,
	})
	if err != nil {
		return nil, fmt.Errorf("plan route: get directions via %d waypoints: %w", len(coords), err)
	}

	totalMeters := 0
	totalSeconds := 0
	for _, leg := range route.Legs {
		totalMeters += leg.DistanceMeters
		totalSeconds += leg.DurationSeconds
	}

	return &domain.RoutePlan{
		Polyline:         route.Polyline,
		TotalDistanceKm:  domain.Round(float64(totalMeters)/1000, 2),
		TotalDurationMin: domain.Round(float64(totalSeconds)/60, 2),
		Waypoints:        waypoints,
	}, nil
}
