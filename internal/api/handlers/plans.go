package handlers

import (
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	Repo     ports.StationRepository
	Provider ports.DirectionsProvider
}

// PlanRoute selects the cheapest stations within the detour budget and
// returns the driving route through them.
func (h *PlanHandler) PlanRoute(c *gin.Context) {
	var req dto.PlanRouteRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	if req.CurrentLat == nil || req.CurrentLon == nil {
		badRequest(c, "current_lat and current_lon are required")
		return
	}
	if req.DestinationLat == nil || req.DestinationLon == nil {
		badRequest(c, "destination_lat and destination_lon are required")
		return
	}

	svcReq := services.PlanRouteRequest{
		Origin:          domain.Coordinates{Lat: *req.CurrentLat, Lon: *req.CurrentLon},
		Destination:     domain.Coordinates{Lat: *req.DestinationLat, Lon: *req.DestinationLon},
		MaxDetourKm:     req.MaxDetourKm,
		NumStations:     req.NumStations,
		OrderByDistance: req.OrderByDistance,
	}

	plan, err := services.PlanRoute(c.Request.Context(), svcReq, h.Repo, h.Provider)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPlanRouteResponse(*plan))
}

// PitStops lists every priced station within the detour budget, cheapest
// first, without requesting directions.
func (h *PlanHandler) PitStops(c *gin.Context) {
	var req dto.PitStopRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	if req.CurrentLat == nil || req.CurrentLon == nil || req.DestinationLat == nil || req.DestinationLon == nil {
		badRequest(c, "current and destination coordinates are required")
		return
	}

	stops, err := services.PitStops(c.Request.Context(), services.PitStopRequest{
		Origin:      domain.Coordinates{Lat: *req.CurrentLat, Lon: *req.CurrentLon},
		Destination: domain.Coordinates{Lat: *req.DestinationLat, Lon: *req.DestinationLon},
		MaxDetourKm: req.MaxDetourKm,
	}, h.Repo)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PitStopResponse{Stations: dto.NewWaypointResponses(stops)})
}
