package handlers

import (
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StationHandler struct {
	Store ports.StationStore
}

// List returns every station with its latest price and full history.
func (h *StationHandler) List(c *gin.Context) {
	histories, err := services.ListStationHistories(c.Request.Context(), h.Store)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]dto.StationResponse, 0, len(histories))
	for _, sh := range histories {
		out = append(out, dto.NewStationResponse(sh))
	}
	c.JSON(http.StatusOK, out)
}

func (h *StationHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	sh, err := services.GetStationHistory(c.Request.Context(), id, h.Store)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStationResponse(*sh))
}

func (h *StationHandler) Prices(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	prices, err := services.GetPriceHistory(c.Request.Context(), id, h.Store)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPriceResponses(prices))
}

func (h *StationHandler) Create(c *gin.Context) {
	var req dto.CreateStationRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		badRequest(c, "latitude and longitude are required")
		return
	}

	st, err := services.RegisterStation(
		c.Request.Context(),
		req.Name,
		domain.Coordinates{Lat: *req.Latitude, Lon: *req.Longitude},
		h.Store,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCreatedStationResponse(*st))
}

func (h *StationHandler) AddPrice(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req dto.AddPriceRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	if req.Price == nil {
		badRequest(c, "price is required")
		return
	}

	p, err := services.ReportPrice(c.Request.Context(), id, *req.Price, h.Store)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewPriceResponse(*p))
}

// Nearby handles GET /stations/nearby?lat=&lon=&radius_km=&limit=.
func (h *StationHandler) Nearby(c *gin.Context) {
	if c.Query("lat") == "" || c.Query("lon") == "" {
		badRequest(c, "lat and lon are required")
		return
	}

	lat, err := queryFloat(c, "lat", 0)
	if err != nil {
		writeError(c, err)
		return
	}
	lon, err := queryFloat(c, "lon", 0)
	if err != nil {
		writeError(c, err)
		return
	}
	radius, err := queryFloat(c, "radius_km", services.DefaultNearbyRadiusKm)
	if err != nil {
		writeError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", services.DefaultNearbyLimit)
	if err != nil {
		writeError(c, err)
		return
	}

	found, err := services.NearbyStations(c.Request.Context(), domain.Coordinates{Lat: lat, Lon: lon}, radius, limit, h.Store)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewNearbyStationResponses(found))
}
