package ports

import "context"

// Optional persistence for directions results, keyed by a request fingerprint.
type DirectionsCache interface {
	// Return the cached result and whether it was present.
	Get(ctx context.Context, key string) (DirectionsResult, bool, error)
	Put(ctx context.Context, key string, result DirectionsResult) error
}
