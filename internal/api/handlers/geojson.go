package handlers

import (
	"encoding/json"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/services"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

const geoJSONContentType = "application/geo+json"

// GeoJSON returns every station as a Point feature collection for map
// clients. Properties carry the latest price, null when never reported.
func (h *StationHandler) GeoJSON(c *gin.Context) {
	histories, err := services.ListStationHistories(c.Request.Context(), h.Store)
	if err != nil {
		writeError(c, err)
		return
	}

	b, err := stationsFeatureCollection(histories)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Data(http.StatusOK, geoJSONContentType, b)
}

func stationsFeatureCollection(histories []domain.StationWithHistory) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(histories))}

	for _, sh := range histories {
		props := map[string]any{
			"id":           sh.ID,
			"name":         sh.Name,
			"latest_price": sh.LatestPrice,
			"recorded_at":  nil,
		}
		if sh.RecordedAt != nil {
			props["recorded_at"] = sh.RecordedAt.UTC().Format(time.RFC3339)
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         strconv.FormatInt(sh.ID, 10),
			Geometry:   geom.NewPointFlat(geom.XY, sh.CoordsToList()),
			Properties: props,
		})
	}

	b, err := json.Marshal(&fc)
	if err != nil {
		return nil, fmt.Errorf("encode stations geojson: %w", err)
	}
	return b, nil
}
