package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"strings"
	"time"
)

// SQLDirectionsCache is a SQL-backed cache for directions results. Rows
// past expires_at are ignored on read and replaced on write.
type SQLDirectionsCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLDirectionsCache(db *sql.DB, ttl time.Duration) *SQLDirectionsCache {
	return &SQLDirectionsCache{DB: db, TTL: ttl}
}

// Fetch the cached result for key, if present and not yet expired.
func (s *SQLDirectionsCache) Get(
	ctx context.Context,
	key string,
) (_ ports.DirectionsResult, _ bool, err error) {
	defer obs.Time(ctx, "directions.cache.sql.Get")(&err)

	if s.DB == nil {
		return ports.DirectionsResult{}, false, errors.New("directions cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return ports.DirectionsResult{}, false, errors.New("get directions cache: key must not be empty")
	}

	q := `
	SELECT payload
	FROM directions_cache
	WHERE cache_key = $1
		AND expires_at > NOW();
	`

	var payload []byte
	if err := s.DB.QueryRowContext(ctx, q, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.DirectionsResult{}, false, nil
		}
		return ports.DirectionsResult{}, false, fmt.Errorf("get directions cache: query directions_cache table: %w", err)
	}

	result, err := decodeResult(payload)
	if err != nil {
		return ports.DirectionsResult{}, false, fmt.Errorf("get directions cache: %w", err)
	}

	return result, true, nil
}

// Store a result under key, replacing any existing row.
func (s *SQLDirectionsCache) Put(
	ctx context.Context,
	key string,
	result ports.DirectionsResult,
) error {
	if s.DB == nil {
		return errors.New("directions cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert directions cache: key must not be empty")
	}

	payload, err := encodeResult(result)
	if err != nil {
		return fmt.Errorf("insert directions cache: %w", err)
	}

	q := `
	INSERT INTO directions_cache (cache_key, payload, expires_at)
	VALUES ($1, $2::jsonb, $3)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`

	expiresAt := time.Now().UTC().Add(s.TTL)
	if _, err := s.DB.ExecContext(ctx, q, key, string(payload), expiresAt); err != nil {
		return fmt.Errorf("insert directions cache key=%q: %w", key, err)
	}

	return nil
}

// cachedLeg and cachedResult fix the stored JSON shape independently of the
// port types.
type cachedLeg struct {
	DistanceMeters  int `json:"distance_meters"`
	DurationSeconds int `json:"duration_seconds"`
}

type cachedResult struct {
	Polyline string      `json:"polyline"`
	Legs     []cachedLeg `json:"legs"`
}

func encodeResult(r ports.DirectionsResult) ([]byte, error) {
	c := cachedResult{Polyline: r.Polyline, Legs: make([]cachedLeg, 0, len(r.Legs))}
	for _, l := range r.Legs {
		c.Legs = append(c.Legs, cachedLeg(l))
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return b, nil
}

func decodeResult(b []byte) (ports.DirectionsResult, error) {
	var c cachedResult
	if err := json.Unmarshal(b, &c); err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("decode payload: %w", err)
	}
	out := ports.DirectionsResult{Polyline: c.Polyline, Legs: make([]ports.DirectionsLeg, 0, len(c.Legs))}
	for _, l := range c.Legs {
		out.Legs = append(out.Legs, ports.DirectionsLeg(l))
	}
	return out, nil
}
