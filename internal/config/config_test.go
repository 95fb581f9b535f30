package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "STATION_STORE", "DIRECTIONS_TIMEOUT", "DIRECTIONS_MAX_ATTEMPTS",
		"DIRECTIONS_CACHE", "CORS_ALLOWED_ORIGINS", "GOOGLE_MAPS_API_KEY",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StationStore != "postgres" {
		t.Errorf("StationStore = %q, want postgres", cfg.StationStore)
	}
	if cfg.DirectionsTimeout != 10*time.Second {
		t.Errorf("DirectionsTimeout = %v, want 10s", cfg.DirectionsTimeout)
	}
	if cfg.DirectionsMaxAttempts != 1 {
		t.Errorf("DirectionsMaxAttempts = %d, want 1", cfg.DirectionsMaxAttempts)
	}
	if cfg.DirectionsCache != "none" {
		t.Errorf("DirectionsCache = %q, want none", cfg.DirectionsCache)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Errorf("CORSAllowedOrigins = %v, want nil", cfg.CORSAllowedOrigins)
	}
	if cfg.MapsAPIKey != "" {
		t.Errorf("MapsAPIKey = %q, want empty", cfg.MapsAPIKey)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STATION_STORE", "Memory")
	t.Setenv("DIRECTIONS_TIMEOUT", "3s")
	t.Setenv("DIRECTIONS_MAX_ATTEMPTS", "0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, ,https://fuel.example")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.StationStore != "memory" {
		t.Errorf("StationStore = %q, want memory", cfg.StationStore)
	}
	if cfg.DirectionsTimeout != 3*time.Second {
		t.Errorf("DirectionsTimeout = %v, want 3s", cfg.DirectionsTimeout)
	}
	if cfg.DirectionsMaxAttempts != 1 {
		t.Errorf("DirectionsMaxAttempts = %d, want clamp to 1", cfg.DirectionsMaxAttempts)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://fuel.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestGetDurationInvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	if got := GetDuration("SOME_TIMEOUT", time.Minute); got != time.Minute {
		t.Fatalf("GetDuration = %v, want 1m", got)
	}
}
