package directions

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// GoogleDirectionsProvider implements DirectionsProvider using the Google
// Directions API.
//
// It coordinates:
//   - Per-call timeout
//   - Optional persistent result caching
//   - Collapsing of identical in-flight requests
//   - Optional retry of transient transport failures
//
// The provider is safe for concurrent use.
type GoogleDirectionsProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	mode        string
	timeout     time.Duration
	maxAttempts int
	cache       ports.DirectionsCache
	group       singleflight.Group
}

type GoogleOptions struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	Cache       ports.DirectionsCache
}

// NewGoogleDirectionsProvider builds a provider. An empty apiKey is accepted
// so the service can start; every call then fails with a configuration error.
func NewGoogleDirectionsProvider(apiKey string, opts GoogleOptions) *GoogleDirectionsProvider {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GoogleDirectionsProvider{
		// The client timeout is a backstop; the per-call context deadline fires first.
		session:     &http.Client{Timeout: timeout + time.Second},
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     baseURL,
		mode:        "driving",
		timeout:     timeout,
		maxAttempts: opts.MaxAttempts,
		cache:       opts.Cache,
	}
}

// Ready reports whether an API key is configured.
func (g *GoogleDirectionsProvider) Ready() error {
	if g.apiKey == "" {
		return fmt.Errorf("google directions: %w: GOOGLE_MAPS_API_KEY is not set", domain.ErrConfiguration)
	}
	return nil
}

// GetDirections returns the driving route for req.
func (g *GoogleDirectionsProvider) GetDirections(
	ctx context.Context,
	req ports.DirectionsRequest,
) (_ ports.DirectionsResult, err error) {
	defer obs.Time(ctx, "google.GetDirections")(&err)

	if err := g.Ready(); err != nil {
		return ports.DirectionsResult{}, err
	}

	key := CacheKey(req)

	// Check persistent cache before issuing external API calls.
	if g.cache != nil {
		cached, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			logrus.WithError(err).Warn("directions cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	// The shared call is detached from any one caller's cancellation so a
	// client that goes away does not fail the requests joined to it. Each
	// caller still stops waiting when its own ctx is done.
	ch := g.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		defer cancel()

		result, err := g.fetchRoute(callCtx, req)
		if err != nil {
			return nil, err
		}

		if g.cache != nil {
			if err := g.cache.Put(callCtx, key, result); err != nil {
				logrus.WithError(err).Warn("directions cache write failed")
			}
		}
		return result, nil
	})

	select {
	case <-ctx.Done():
		return ports.DirectionsResult{}, fmt.Errorf("google directions: %w: %w", domain.ErrUpstream, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return ports.DirectionsResult{}, fmt.Errorf("google directions: %w", res.Err)
		}
		return res.Val.(ports.DirectionsResult), nil
	}
}

// CacheKey fingerprints a directions request. Coordinates are fixed to six
// decimals (about 0.1 m) so equivalent requests share a key.
func CacheKey(req ports.DirectionsRequest) string {
	format := func(c domain.Coordinates) string {
		return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lon, 'f', 6, 64)
	}

	var b strings.Builder
	b.WriteString("o=")
	b.WriteString(format(req.Origin))
	b.WriteString(";d=")
	b.WriteString(format(req.Destination))
	b.WriteString(";w=")
	for i, w := range req.Waypoints {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(format(w))
	}

	return b.String()
}
