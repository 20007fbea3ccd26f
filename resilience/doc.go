// Package resilience wraps an httpclient.Doer with fault-tolerance
// policies for talking to the petje.af API:
//   - Retry: retries idempotent requests on transport failures, 429 and
//     5xx responses with exponential backoff, honouring Retry-After
//   - CircuitBreaker: fails fast after repeated transport or server failures
//   - RateLimit: token bucket that delays requests to stay under a rate
//   - MaxConcurrent: caps the number of requests in flight
//
// The API client itself never retries; enable these through
// client.Config.Resilience or by wrapping a Doer directly:
//
//	doer := resilience.Wrap(adapter, resilience.Config{
//	    Retry:          &resilience.RetryConfig{MaxAttempts: 3},
//	    CircuitBreaker: &resilience.BreakerConfig{MaxFailures: 5},
//	})
package resilience
