package services

import "fuel-route-service/internal/domain"

// Order waypoints with a greedy nearest-neighbor walk starting at origin.
//
// Each step picks the closest remaining stop by great-circle distance.
// It does not attempt global route optimization.
// Equal distances are broken by station id so the result is deterministic.
func NearestNeighborOrder(origin domain.Coordinates, waypoints []domain.Waypoint) []domain.Waypoint {
	remaining := make([]domain.Waypoint, len(waypoints))
	copy(remaining, waypoints)

	ordered := make([]domain.Waypoint, 0, len(waypoints))
	current := origin

	for len(remaining) > 0 {
		best := 0
		minDist := domain.HaversineKm(current, remaining[0].Coordinates)

		// Select next stop by minimum distance (greedy step).
		for i := 1; i < len(remaining); i++ {
			w := remaining[i]
			d := domain.HaversineKm(current, w.Coordinates)
			if d < minDist || (d == minDist && w.ID < remaining[best].ID) {
				minDist = d
				best = i
			}
		}

		next := remaining[best]
		ordered = append(ordered, next)
		current = next.Coordinates

		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return ordered
}
