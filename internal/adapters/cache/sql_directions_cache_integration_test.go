//go:build integration

package cache

import (
	"context"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/ports"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSQLDirectionsCache_Postgres(t *testing.T) {
	raw := os.Getenv("DATABASE_URL")
	if raw == "" {
		t.Skip("DATABASE_URL not set")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		t.Skip("DATABASE_URL must be a postgres:// URL")
	}

	ctx := context.Background()
	schema := "fuelroute_cache_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	admin, err := db.Open(ctx, raw)
	if err != nil {
		t.Fatalf("open admin connection: %v", err)
	}
	defer admin.Close()

	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	defer admin.ExecContext(context.Background(), "DROP SCHEMA "+schema+" CASCADE")

	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	conn, err := db.Open(ctx, u.String())
	if err != nil {
		t.Fatalf("open schema connection: %v", err)
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	c := NewSQLDirectionsCache(conn, time.Minute)
	want := ports.DirectionsResult{Polyline: "p", Legs: []ports.DirectionsLeg{{DistanceMeters: 10, DurationSeconds: 2}}}

	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("Get on empty cache = ok %v err %v, want miss", ok, err)
	}
	if err := c.Put(ctx, "k", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || got.Polyline != "p" || len(got.Legs) != 1 {
		t.Fatalf("Get after Put = %+v ok %v err %v", got, ok, err)
	}

	expired := NewSQLDirectionsCache(conn, -time.Minute)
	if err := expired.Put(ctx, "old", want); err != nil {
		t.Fatalf("Put expired: %v", err)
	}
	if _, ok, err := c.Get(ctx, "old"); err != nil || ok {
		t.Fatalf("Get expired = ok %v err %v, want miss", ok, err)
	}
}
