package directions

import (
	"context"
	"errors"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const okBody = `{
  "status": "OK",
  "routes": [
    {
      "overview_polyline": {"points": "encoded_polyline"},
      "legs": [
        {"distance": {"value": 12000}, "duration": {"value": 900}},
        {"distance": {"value": 8000}, "duration": {"value": 600}}
      ]
    },
    {
      "overview_polyline": {"points": "alternative"},
      "legs": [{"distance": {"value": 1}, "duration": {"value": 1}}]
    }
  ]
}`

var testReq = ports.DirectionsRequest{
	Origin:      domain.Coordinates{Lat: 40.0, Lon: -74.0},
	Destination: domain.Coordinates{Lat: 40.5, Lon: -74.5},
	Waypoints: []domain.Coordinates{
		{Lat: 40.1, Lon: -74.1},
		{Lat: 40.2, Lon: -74.2},
	},
}

func newTestProvider(t *testing.T, h http.HandlerFunc, opts GoogleOptions) *GoogleDirectionsProvider {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	return NewGoogleDirectionsProvider("test-key", opts)
}

func TestGetDirections_OK(t *testing.T) {
	var gotQuery map[string]string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/directions/json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"origin":      q.Get("origin"),
			"destination": q.Get("destination"),
			"waypoints":   q.Get("waypoints"),
			"mode":        q.Get("mode"),
			"key":         q.Get("key"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okBody))
	}, GoogleOptions{})

	res, err := p.GetDirections(context.Background(), testReq)
	if err != nil {
		t.Fatalf("GetDirections: %v", err)
	}

	want := map[string]string{
		"origin":      "40,-74",
		"destination": "40.5,-74.5",
		"waypoints":   "40.1,-74.1|40.2,-74.2",
		"mode":        "driving",
		"key":         "test-key",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Fatalf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if res.Polyline != "encoded_polyline" {
		t.Fatalf("polyline = %q, want first route", res.Polyline)
	}
	if len(res.Legs) != 2 || res.Legs[0].DistanceMeters != 12000 || res.Legs[1].DurationSeconds != 600 {
		t.Fatalf("legs = %+v", res.Legs)
	}
}

func TestGetDirections_NoWaypointsOmitsParam(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["waypoints"]; ok {
			t.Errorf("waypoints param should be absent")
		}
		_, _ = w.Write([]byte(okBody))
	}, GoogleOptions{})

	req := testReq
	req.Waypoints = nil
	if _, err := p.GetDirections(context.Background(), req); err != nil {
		t.Fatalf("GetDirections: %v", err)
	}
}

func TestGetDirections_NonOKStatus(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key","routes":[]}`))
	}, GoogleOptions{MaxAttempts: 3})

	_, err := p.GetDirections(context.Background(), testReq)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (status errors are not retried)", calls)
	}
}

func TestGetDirections_EmptyRoutes(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","routes":[]}`))
	}, GoogleOptions{})

	if _, err := p.GetDirections(context.Background(), testReq); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestGetDirections_ServerErrorNoRetryByDefault(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}, GoogleOptions{})

	_, err := p.GetDirections(context.Background(), testReq)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestGetDirections_RetriesServerError(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(okBody))
	}, GoogleOptions{MaxAttempts: 2})

	if _, err := p.GetDirections(context.Background(), testReq); err != nil {
		t.Fatalf("GetDirections: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestGetDirections_InvalidJSON(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}, GoogleOptions{})

	if _, err := p.GetDirections(context.Background(), testReq); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestGetDirections_Timeout(t *testing.T) {
	release := make(chan struct{})
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, GoogleOptions{Timeout: 50 * time.Millisecond})
	defer close(release)

	_, err := p.GetDirections(context.Background(), testReq)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestGetDirections_MissingKey(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	p := NewGoogleDirectionsProvider("  ", GoogleOptions{BaseURL: srv.URL})

	_, err := p.GetDirections(context.Background(), testReq)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
}

type memCache struct {
	mu   sync.Mutex
	data map[string]ports.DirectionsResult
}

func (c *memCache) Get(ctx context.Context, key string) (ports.DirectionsResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.data[key]
	return r, ok, nil
}

func (c *memCache) Put(ctx context.Context, key string, r ports.DirectionsResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = r
	return nil
}

func TestGetDirections_UsesCache(t *testing.T) {
	var calls int32
	cache := &memCache{data: map[string]ports.DirectionsResult{}}
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(okBody))
	}, GoogleOptions{Cache: cache})

	for i := 0; i < 3; i++ {
		if _, err := p.GetDirections(context.Background(), testReq); err != nil {
			t.Fatalf("GetDirections #%d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if _, ok := cache.data[CacheKey(testReq)]; !ok {
		t.Fatalf("result not stored under CacheKey")
	}
}

func TestCacheKey_WaypointOrderMatters(t *testing.T) {
	a := testReq
	b := testReq
	b.Waypoints = []domain.Coordinates{testReq.Waypoints[1], testReq.Waypoints[0]}

	if CacheKey(a) == CacheKey(b) {
		t.Fatalf("keys for different waypoint order should differ")
	}
	if CacheKey(a) != CacheKey(testReq) {
		t.Fatalf("key should be stable")
	}
}

func TestGetDirections_CallerCancelDoesNotFailSharedCall(t *testing.T) {
	var calls int32
	started := make(chan struct{}, 1)
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte(okBody))
	}, GoogleOptions{Timeout: 2 * time.Second})

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	errA := make(chan error, 1)
	go func() {
		_, err := p.GetDirections(ctxA, testReq)
		errA <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("first request never reached the server")
	}

	type outcome struct {
		res ports.DirectionsResult
		err error
	}
	doneB := make(chan outcome, 1)
	go func() {
		res, err := p.GetDirections(context.Background(), testReq)
		doneB <- outcome{res, err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancelA()

	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller err = %v, want context.Canceled", err)
	}

	b := <-doneB
	if b.err != nil {
		t.Fatalf("second caller failed: %v", b.err)
	}
	if b.res.Polyline != "encoded_polyline" {
		t.Fatalf("second caller polyline = %q", b.res.Polyline)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls = %d, want 1 shared call", n)
	}
}

func TestGetDirections_RetriesRateLimit(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(okBody))
	}, GoogleOptions{MaxAttempts: 3})

	if _, err := p.GetDirections(context.Background(), testReq); err != nil {
		t.Fatalf("GetDirections: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestGetDirections_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}, GoogleOptions{MaxAttempts: 3})

	if _, err := p.GetDirections(context.Background(), testReq); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestGetDirections_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	p := NewGoogleDirectionsProvider("secret-key", GoogleOptions{BaseURL: base})

	_, err := p.GetDirections(context.Background(), testReq)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("error leaks api key: %v", err)
	}
}

func TestReady(t *testing.T) {
	if err := NewGoogleDirectionsProvider("", GoogleOptions{}).Ready(); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("Ready without key = %v, want ErrConfiguration", err)
	}
	if err := NewGoogleDirectionsProvider("k", GoogleOptions{}).Ready(); err != nil {
		t.Fatalf("Ready with key = %v, want nil", err)
	}
}
