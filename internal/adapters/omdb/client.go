// internal/adapters/omdb/client.go
package omdb

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"movie_review/internal/adapters/observability"
	"movie_review/internal/domain"
)

// Client talks to the OMDb API. OMDb is a single endpoint driven by query
// parameters and signals "not found" in-band via Response:"False" with HTTP 200.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ErrNotFound wraps the domain sentinel so callers can match either without
// importing this package.
var (
	ErrNotFound     = fmt.Errorf("omdb: %w", domain.ErrNotFound)
	ErrUnauthorized = errors.New("omdb: unauthorized")
	ErrForbidden    = errors.New("omdb: forbidden")
)

// GetMovie fetches full details for one IMDb id.
func (c *Client) GetMovie(ctx context.Context, imdbID string) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "movie", c.endpoint(url.Values{"i": {imdbID}}), &out); err != nil {
		return nil, err
	}
	if err := inlineError(out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchMovies runs a free-text title search and returns the raw result set.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "search", c.endpoint(url.Values{"s": {query}}), &out); err != nil {
		return nil, err
	}
	if err := inlineError(out); err != nil {
		return nil, err
	}
	raw, _ := out["Search"].([]any)
	hits := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			hits = append(hits, m)
		}
	}
	return hits, nil
}

func (c *Client) endpoint(q url.Values) string {
	q.Set("apikey", c.key)
	return c.base + "/?" + q.Encode()
}

// inlineError maps OMDb's in-band failure signal onto ErrNotFound.
func inlineError(m map[string]any) error {
	if resp, _ := m["Response"].(string); resp != "False" {
		return nil
	}
	msg, _ := m["Error"].(string)
	if msg == "" {
		msg = "movie not found"
	}
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// get performs a GET with client-side rate limiting, retries, and JSON decode
// into out. Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "movie-review/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("omdb", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("omdb", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter from crypto/rand so concurrent fetches don't align.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
