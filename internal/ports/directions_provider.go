package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// A driving route request. Waypoints are visited in the given order.
type DirectionsRequest struct {
	Origin      domain.Coordinates
	Destination domain.Coordinates
	Waypoints   []domain.Coordinates
}

// Distance and travel duration of a single route leg.
type DirectionsLeg struct {
	DistanceMeters  int
	DurationSeconds int
}

// The first route alternative returned by a directions provider.
type DirectionsResult struct {
	Polyline string
	Legs     []DirectionsLeg
}

// Contract for retrieving a driving route through ordered waypoints.
type DirectionsProvider interface {
	// Return the route from origin to destination via the waypoints.
	GetDirections(ctx context.Context, req DirectionsRequest) (DirectionsResult, error)
}

// Optionally implemented by providers that can detect missing credentials
// without a network call. Ready returns an error wrapping
// domain.ErrConfiguration when the provider cannot serve requests.
type DirectionsReadiness interface {
	Ready() error
}
