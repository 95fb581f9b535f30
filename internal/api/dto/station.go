package dto

import (
	"fuel-route-service/internal/domain"
	"time"
)

type PriceResponse struct {
	ID         int64     `json:"id"`
	StationID  int64     `json:"station_id"`
	Price      float64   `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Latest price and recorded_at are null for a station with no observations.
type StationResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	LatestPrice *float64        `json:"latest_price"`
	RecordedAt  *time.Time      `json:"recorded_at"`
	Prices      []PriceResponse `json:"prices"`
}

type CreateStationRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type CreatedStationResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AddPriceRequest struct {
	Price *float64 `json:"price"`
}

type NearbyStationResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	LatestPrice float64 `json:"latest_price"`
	DistanceKm  float64 `json:"distance_km"`
}

func NewPriceResponse(p domain.PriceObservation) PriceResponse {
	return PriceResponse{
		ID:         p.ID,
		StationID:  p.StationID,
		Price:      p.Price,
		RecordedAt: p.RecordedAt.UTC(),
	}
}

func NewPriceResponses(prices []domain.PriceObservation) []PriceResponse {
	out := make([]PriceResponse, 0, len(prices))
	for _, p := range prices {
		out = append(out, NewPriceResponse(p))
	}
	return out
}

func NewStationResponse(h domain.StationWithHistory) StationResponse {
	return StationResponse{
		ID:          h.ID,
		Name:        h.Name,
		Latitude:    h.Lat,
		Longitude:   h.Lon,
		LatestPrice: h.LatestPrice,
		RecordedAt:  h.RecordedAt,
		Prices:      NewPriceResponses(h.Prices),
	}
}

func NewCreatedStationResponse(s domain.Station) CreatedStationResponse {
	return CreatedStationResponse{ID: s.ID, Name: s.Name, Latitude: s.Lat, Longitude: s.Lon}
}

func NewNearbyStationResponses(in []domain.NearbyStation) []NearbyStationResponse {
	out := make([]NearbyStationResponse, 0, len(in))
	for _, s := range in {
		out = append(out, NearbyStationResponse{
			ID:          s.ID,
			Name:        s.Name,
			Latitude:    s.Lat,
			Longitude:   s.Lon,
			LatestPrice: s.LatestPrice,
			DistanceKm:  s.DistanceKm,
		})
	}
	return out
}
