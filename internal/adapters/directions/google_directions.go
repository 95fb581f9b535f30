package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"net/url"
	"strings"
)

const (
	directionsPath = "/maps/api/directions/json"
	statusOK       = "OK"
)

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// fetchRoute requests a driving route from the Directions API and
// returns the first route alternative.
func (g *GoogleDirectionsProvider) fetchRoute(
	ctx context.Context,
	req ports.DirectionsRequest,
) (ports.DirectionsResult, error) {
	params := url.Values{}
	params.Set("origin", req.Origin.String())
	params.Set("destination", req.Destination.String())
	if len(req.Waypoints) > 0 {
		params.Set("waypoints", joinWaypoints(req.Waypoints))
	}
	params.Set("mode", g.mode)

	resp, err := g.get(ctx, directionsPath, params)
	if err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("directions request failed: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("decode directions response: %w: %w", domain.ErrUpstream, err)
	}

	if dr.Status != statusOK {
		msg := dr.Status
		if dr.ErrorMessage != "" {
			msg += ": " + dr.ErrorMessage
		}
		return ports.DirectionsResult{}, fmt.Errorf("directions status %s: %w", msg, domain.ErrUpstream)
	}

	if len(dr.Routes) == 0 {
		return ports.DirectionsResult{}, fmt.Errorf("directions returned no routes: %w", domain.ErrUpstream)
	}

	route := dr.Routes[0]
	out := ports.DirectionsResult{
		Polyline: route.OverviewPolyline.Points,
		Legs:     make([]ports.DirectionsLeg, 0, len(route.Legs)),
	}
	for _, leg := range route.Legs {
		out.Legs = append(out.Legs, ports.DirectionsLeg{
			DistanceMeters:  leg.Distance.Value,
			DurationSeconds: leg.Duration.Value,
		})
	}

	return out, nil
}

func joinWaypoints(points []domain.Coordinates) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "|")
}
