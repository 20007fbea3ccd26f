package resilience

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/petjeaf/petjeaf-go/httpclient"
)

// backoff returns the delay after the given failed attempt (1-based).
// rnd returns a value in [0, 1).
func (c RetryConfig) backoff(attempt int, rnd func() float64) time.Duration {
	// Exponential backoff: initial * factor^(attempt-1)
	d := float64(c.InitialBackoff) * math.Pow(c.Factor, float64(attempt-1))

	if c.Jitter > 0 {
		d += (rnd()*2 - 1) * d * c.Jitter
	}
	if d > float64(c.MaxBackoff) {
		d = float64(c.MaxBackoff)
	}
	if d < 0 {
		d = float64(c.InitialBackoff)
	}
	return time.Duration(d)
}

// delay prefers the server's Retry-After over the computed backoff.
func (c RetryConfig) delay(attempt int, resp *httpclient.Response, rnd func() float64) time.Duration {
	if d, ok := retryAfter(resp); ok {
		return min(d, c.MaxBackoff)
	}
	return c.backoff(attempt, rnd)
}

// retryable reports whether the outcome of method may be retried.
func (c RetryConfig) retryable(ctx context.Context, method string, resp *httpclient.Response, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if !c.NonIdempotent && !idempotent(method) {
		return false
	}
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			return false
		}
		var herr *httpclient.Error
		if errors.As(err, &herr) {
			return herr.Retryable
		}
		return true
	}
	return resp != nil && retryableStatus(resp.StatusCode)
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(resp *httpclient.Response) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	v := resp.Headers["Retry-After"]
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}
