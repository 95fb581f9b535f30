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

const (
	DefaultNearbyRadiusKm = 10.0
	DefaultNearbyLimit    = 20
)

// Return priced stations within radiusKm of center, nearest first.
// Equal distances are ordered by station id. limit <= 0 means no limit.
func NearbyStations(
	ctx context.Context,
	center domain.Coordinates,
	radiusKm float64,
	limit int,
	repo ports.StationRepository,
) (_ []domain.NearbyStation, err error) {
	defer obs.Time(ctx, "services.NearbyStations")(&err)

	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("nearby stations: %w", err)
	}
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return nil, fmt.Errorf("nearby stations: %w: radius_km must be >= 0", domain.ErrValidation)
	}

	candidates, err := repo.ListPricedStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("nearby stations: %w", err)
	}

	type hit struct {
		domain.PricedStation
		dist float64
	}

	hits := make([]hit, 0, len(candidates))
	for _, c := range candidates {
		d := domain.HaversineKm(center, c.Coordinates)
		if d <= radiusKm {
			hits = append(hits, hit{PricedStation: c, dist: d})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].ID < hits[j].ID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]domain.NearbyStation, 0, len(hits))
	for _, h := range hits {
		out = append(out, domain.NearbyStation{
			Station:     h.Station,
			LatestPrice: h.LatestPrice,
			DistanceKm:  domain.Round(h.dist, 2),
		})
	}

	return out, nil
}
