package directions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const initialBackoff = 200 * time.Millisecond

// httpStatusError is a Google API response with a 4xx or 5xx status.
type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// newRequest builds a GET against the Google Maps web service at path.
// The API key travels as the "key" query parameter, never in a header.
func (g *GoogleDirectionsProvider) newRequest(
	ctx context.Context,
	path string,
	params url.Values,
) (*http.Request, error) {
	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("key", g.apiKey)

	endpoint := g.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// get sends one request per attempt until a response under 400 arrives, a
// non-retryable failure occurs or the attempts run out. With maxAttempts of 1
// the request is sent exactly once.
func (g *GoogleDirectionsProvider) get(
	ctx context.Context,
	path string,
	params url.Values,
) (*http.Response, error) {
	attempts := max(g.maxAttempts, 1)
	backoff := initialBackoff

	for attempt := 1; ; attempt++ {
		req, err := g.newRequest(ctx, path, params)
		if err != nil {
			return nil, err
		}

		resp, err := g.send(req)
		if err == nil {
			return resp, nil
		}

		if attempt >= attempts || !retryable(ctx, err) {
			return nil, err
		}

		if err := sleep(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
	}
}

// send performs req and converts error statuses into *httpStatusError.
// Callers own the returned body.
func (g *GoogleDirectionsProvider) send(req *http.Request) (*http.Response, error) {
	resp, err := g.session.Do(req)
	if err != nil {
		return nil, redactKey(err, g.apiKey)
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}

// retryable reports whether err is transient: rate limiting, a 5xx gateway
// or server error, or a network failure while ctx is still live.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var he *httpStatusError
	if errors.As(err, &he) {
		return he.Code == http.StatusTooManyRequests || he.Code >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// redactKey strips the API key from transport errors, which quote the URL.
func redactKey(err error, key string) error {
	var ue *url.Error
	if key == "" || !errors.As(err, &ue) {
		return err
	}
	redacted := *ue
	redacted.URL = strings.ReplaceAll(ue.URL, url.QueryEscape(key), "REDACTED")
	return &redacted
}
