package domain

// Represents a station selected as a fuel stop on a planned route.
// DetourKm is rounded to two decimals for presentation.
type Waypoint struct {
	Station
	LatestPrice float64
	DetourKm    float64
}

// Represents a station found near a point.
type NearbyStation struct {
	Station
	LatestPrice float64
	DistanceKm  float64
}

// Represents the composed driving route through the selected fuel stops.
// Waypoints are in the order they were passed to the directions provider.
type RoutePlan struct {
	Polyline         string
	TotalDistanceKm  float64
	TotalDurationMin float64
	Waypoints        []Waypoint
}
