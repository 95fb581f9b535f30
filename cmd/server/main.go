package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/adapters/cache"
	"fuel-route-service/internal/adapters/directions"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/api"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/logging"
	"fuel-route-service/internal/ports"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or memory, Google Directions, optional
// cache) behind ports and starts the HTTP server.
func main() {
	cfg := config.Load()
	logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})

	ctx := context.Background()

	store, sqlDB, err := openStore(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("open station store")
	}
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	directionsCache, closeCache, err := openCache(ctx, cfg, sqlDB)
	if err != nil {
		logrus.WithError(err).Fatal("open directions cache")
	}
	defer closeCache()

	if cfg.MapsAPIKey == "" {
		logrus.Warn("GOOGLE_MAPS_API_KEY is not set; route planning requests will fail")
	}

	provider := directions.NewGoogleDirectionsProvider(cfg.MapsAPIKey, directions.GoogleOptions{
		BaseURL:     cfg.DirectionsBaseURL,
		Timeout:     cfg.DirectionsTimeout,
		MaxAttempts: cfg.DirectionsMaxAttempts,
		Cache:       directionsCache,
	})

	router := api.NewRouter(store, provider, cfg.CORSAllowedOrigins)

	// Write timeout leaves room for a slow directions call plus retries.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{"addr": srv.Addr, "store": cfg.StationStore, "cache": cfg.DirectionsCache}).
			Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server forced to shutdown")
	}
	logrus.Info("Server exited")
}

// openStore returns the configured station store. The *sql.DB is non-nil only
// for the Postgres store.
func openStore(ctx context.Context, cfg *config.Config) (ports.StationStore, *sql.DB, error) {
	switch cfg.StationStore {
	case "memory":
		seeds, err := repositories.LoadSeeds(cfg.SeedPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, nil, fmt.Errorf("open store: %w", err)
			}
			logrus.WithField("path", cfg.SeedPath).Warn("seed file not found; starting with an empty memory store")
		}

		repo, err := repositories.NewMemoryStationRepositoryFromSeeds(seeds)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return repo, nil, nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, errors.New("open store: DATABASE_URL is required for STATION_STORE=postgres")
		}

		sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}

		// Schema creation is idempotent; seeding is left to cmd/dbtool.
		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}

		return repositories.NewPostgresStationRepository(sqlDB), sqlDB, nil

	default:
		return nil, nil, fmt.Errorf("open store: unknown STATION_STORE %q (want postgres or memory)", cfg.StationStore)
	}
}

// openCache returns the configured directions cache, or nil for "none".
func openCache(ctx context.Context, cfg *config.Config, sqlDB *sql.DB) (ports.DirectionsCache, func(), error) {
	noop := func() {}

	switch cfg.DirectionsCache {
	case "", "none":
		return nil, noop, nil

	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open cache: %w", err)
		}
		return cache.NewRedisDirectionsCache(client, cfg.DirectionsCacheTTL), closer(client), nil

	case "sql":
		if sqlDB == nil {
			return nil, noop, errors.New("open cache: DIRECTIONS_CACHE=sql requires STATION_STORE=postgres")
		}
		return cache.NewSQLDirectionsCache(sqlDB, cfg.DirectionsCacheTTL), noop, nil

	default:
		return nil, noop, fmt.Errorf("open cache: unknown DIRECTIONS_CACHE %q (want none, redis or sql)", cfg.DirectionsCache)
	}
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			logrus.WithError(err).Warn("close")
		}
	}
}
