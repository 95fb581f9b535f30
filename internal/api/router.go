package api

import (
	"fuel-route-service/internal/api/handlers"
	"fuel-route-service/internal/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires HTTP handlers with their dependencies and returns the engine.
// This is the API composition root (handlers stay unaware of concrete adapters).
//
// An empty allowedOrigins list allows every origin.
func NewRouter(
	store ports.StationStore,
	provider ports.DirectionsProvider,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), loggingMiddleware())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowHeaders(requestIDHeader)
	corsConfig.AddExposeHeaders(requestIDHeader)
	router.Use(cors.New(corsConfig))

	stationHandler := &handlers.StationHandler{Store: store}
	planHandler := &handlers.PlanHandler{
		Repo:     store,
		Provider: provider,
	}

	router.GET("/health", handlers.Health)

	stations := router.Group("/stations")
	stations.GET("", stationHandler.List)
	stations.POST("", stationHandler.Create)
	stations.GET("/geojson", stationHandler.GeoJSON)
	stations.GET("/nearby", stationHandler.Nearby)
	stations.POST("/pit-stops", planHandler.PitStops)
	stations.POST("/plan-route", planHandler.PlanRoute)
	stations.GET("/:id", stationHandler.Get)
	stations.GET("/:id/prices", stationHandler.Prices)
	stations.POST("/:id/prices", stationHandler.AddPrice)

	return router
}
