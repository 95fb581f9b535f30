package dto

import "fuel-route-service/internal/domain"

// Coordinates are pointers so a missing field can be told apart from zero.
type PlanRouteRequest struct {
	CurrentLat      *float64 `json:"current_lat"`
	CurrentLon      *float64 `json:"current_lon"`
	DestinationLat  *float64 `json:"destination_lat"`
	DestinationLon  *float64 `json:"destination_lon"`
	MaxDetourKm     *float64 `json:"max_detour_km"`
	NumStations     *int     `json:"num_stations"`
	OrderByDistance bool     `json:"order_by_distance"`
}

type PitStopRequest struct {
	CurrentLat     *float64 `json:"current_lat"`
	CurrentLon     *float64 `json:"current_lon"`
	DestinationLat *float64 `json:"destination_lat"`
	DestinationLon *float64 `json:"destination_lon"`
	MaxDetourKm    *float64 `json:"max_detour_km"`
}

type WaypointResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	LatestPrice float64 `json:"latest_price"`
	DetourKm    float64 `json:"detour_km"`
}

type PlanRouteResponse struct {
	RoutePolyline    string             `json:"route_polyline"`
	TotalDistanceKm  float64            `json:"total_distance_km"`
	TotalDurationMin float64            `json:"total_duration_min"`
	Waypoints        []WaypointResponse `json:"waypoints"`
}

type PitStopResponse struct {
	Stations []WaypointResponse `json:"stations"`
}

func NewWaypointResponses(in []domain.Waypoint) []WaypointResponse {
	out := make([]WaypointResponse, 0, len(in))
	for _, w := range in {
		out = append(out, WaypointResponse{
			ID:          w.ID,
			Name:        w.Name,
			Latitude:    w.Lat,
			Longitude:   w.Lon,
			LatestPrice: w.LatestPrice,
			DetourKm:    w.DetourKm,
		})
	}
	return out
}

func NewPlanRouteResponse(p domain.RoutePlan) PlanRouteResponse {
	return PlanRouteResponse{
		RoutePolyline:    p.Polyline,
		TotalDistanceKm:  p.TotalDistanceKm,
		TotalDurationMin: p.TotalDurationMin,
		Waypoints:        NewWaypointResponses(p.Waypoints),
	}
}
