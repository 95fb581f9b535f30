package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the service configuration read from the environment.
type Config struct {
	Port string

	// Station store: "postgres" or "memory".
	StationStore string
	DatabaseURL  string
	SeedPath     string

	// Directions provider
	MapsAPIKey            string
	DirectionsBaseURL     string
	DirectionsTimeout     time.Duration
	DirectionsMaxAttempts int

	// Directions cache: "none", "redis" or "sql".
	DirectionsCache    string
	RedisURL           string
	DirectionsCacheTTL time.Duration

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads a .env file when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}

	cfg := &Config{
		Port:                  Get("PORT", "8080"),
		StationStore:          strings.ToLower(Get("STATION_STORE", "postgres")),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SeedPath:              Get("SEED_PATH", "data/seeds/stations.json"),
		MapsAPIKey:            strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")),
		DirectionsBaseURL:     Get("DIRECTIONS_BASE_URL", "https://maps.googleapis.com"),
		DirectionsTimeout:     GetDuration("DIRECTIONS_TIMEOUT", 10*time.Second),
		DirectionsMaxAttempts: GetInt("DIRECTIONS_MAX_ATTEMPTS", 1),
		DirectionsCache:       strings.ToLower(Get("DIRECTIONS_CACHE", "none")),
		RedisURL:              Get("REDIS_URL", "redis://localhost:6379/0"),
		DirectionsCacheTTL:    GetDuration("DIRECTIONS_CACHE_TTL", 10*time.Minute),
		CORSAllowedOrigins:    GetList("CORS_ALLOWED_ORIGINS"),
		LogLevel:              Get("LOG_LEVEL", "info"),
		LogFormat:             Get("LOG_FORMAT", "text"),
		LogFile:               os.Getenv("LOG_FILE"),
	}

	if cfg.DirectionsMaxAttempts < 1 {
		cfg.DirectionsMaxAttempts = 1
	}

	return cfg
}

// Get returns the value of key or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).WithError(err).Warn("invalid integer, using default")
		return fallback
	}
	return n
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithField("key", key).WithError(err).Warn("invalid duration, using default")
		return fallback
	}
	return d
}

// GetList splits a comma-separated value, dropping empty items.
func GetList(key string) []string {
	v := Get(key, "")
	if v == "" {
		return nil
	}

	out := make([]string, 0)
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
