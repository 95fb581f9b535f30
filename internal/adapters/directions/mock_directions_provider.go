package directions

import (
	"context"
	"fuel-route-service/internal/ports"
	"sync"
)

// MockDirectionsProvider returns a fixed result (or error) and records every
// request it receives.
type MockDirectionsProvider struct {
	mu       sync.Mutex
	result   ports.DirectionsResult
	err      error
	requests []ports.DirectionsRequest
}

func NewMockDirectionsProvider(result ports.DirectionsResult, err error) *MockDirectionsProvider {
	return &MockDirectionsProvider{result: result, err: err}
}

func (p *MockDirectionsProvider) GetDirections(ctx context.Context, req ports.DirectionsRequest) (ports.DirectionsResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	if p.err != nil {
		return ports.DirectionsResult{}, p.err
	}

	return p.result, nil
}

// Requests returns a copy of the requests received so far.
func (p *MockDirectionsProvider) Requests() []ports.DirectionsRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]ports.DirectionsRequest, len(p.requests))
	copy(out, p.requests)
	return out
}
