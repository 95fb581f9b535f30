package domain

import (
	"errors"
	"math"
	"testing"
)

func TestHaversineSymmetryAndZero(t *testing.T) {
	points := []Coordinates{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 10},
		{Lat: 45, Lon: 5},
		{Lat: 40.7306, Lon: -73.9352},
		{Lat: 40.4406, Lon: -79.9959},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 90, Lon: 0},
	}

	for _, a := range points {
		if d := HaversineKm(a, a); d != 0 {
			t.Errorf("HaversineKm(%v, %v) = %v, want 0", a, a, d)
		}
		for _, b := range points {
			ab := HaversineKm(a, b)
			ba := HaversineKm(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("asymmetric distance %v -> %v: %v vs %v", a, b, ab, ba)
			}
			if ab < 0 {
				t.Errorf("negative distance %v -> %v: %v", a, b, ab)
			}
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// 10 degrees of arc along the equator on a 6371 km sphere.
	want := 2 * math.Pi * EarthRadiusKm * 10 / 360
	got := HaversineKm(Coordinates{Lat: 0, Lon: 0}, Coordinates{Lat: 0, Lon: 10})
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("distance = %.6f, want %.6f", got, want)
	}
}

func TestDetourColinearIsNearZero(t *testing.T) {
	origin := Coordinates{Lat: 0, Lon: 0}
	dest := Coordinates{Lat: 0, Lon: 10}

	d := DetourKm(origin, Coordinates{Lat: 0, Lon: 5}, dest)
	if math.Abs(d) > 1e-6 {
		t.Fatalf("colinear detour = %v, want ~0", d)
	}

	far := DetourKm(origin, Coordinates{Lat: 45, Lon: 5}, dest)
	if far < 1000 {
		t.Fatalf("off-path detour = %v, want > 1000 km", far)
	}
}

func TestRound(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.234, 1.23},
		{1.236, 1.24},
		{0, 0},
		{-0.004, 0},
		{123.456789, 123.46},
	}
	for _, c := range cases {
		if got := Round(c.in, 2); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("Round(%v, 2) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCoordinatesValidate(t *testing.T) {
	valid := []Coordinates{{0, 0}, {90, 180}, {-90, -180}, {40.44, -79.99}}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Errorf("Validate(%v) = %v, want nil", c, err)
		}
	}

	invalid := []Coordinates{{91, 0}, {-91, 0}, {0, 181}, {0, -181}, {math.NaN(), 0}, {0, math.Inf(1)}}
	for _, c := range invalid {
		err := c.Validate()
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Validate(%v) = %v, want ErrValidation", c, err)
		}
	}
}

func TestCoordinatesString(t *testing.T) {
	c := Coordinates{Lat: 40.4406, Lon: -79.9959}
	if got := c.String(); got != "40.4406,-79.9959" {
		t.Fatalf("String() = %q, want %q", got, "40.4406,-79.9959")
	}
}
