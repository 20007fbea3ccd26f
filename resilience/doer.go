package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/petjeaf/petjeaf-go/httpclient"
	"github.com/petjeaf/petjeaf-go/logger"
)

// Doer applies the configured policies around another Doer. Per attempt
// the order is: concurrency slot, rate limit, circuit breaker, request.
type Doer struct {
	next    httpclient.Doer
	retry   *RetryConfig
	breaker *CircuitBreaker
	limiter *RateLimiter
	slots   chan struct{}
	log     *logger.Logger

	sleep func(ctx context.Context, d time.Duration) error
	rnd   func() float64
}

// compile-time assertion
var _ httpclient.Doer = (*Doer)(nil)

// Option configures a Doer.
type Option func(*Doer)

// WithLogger logs retries and circuit state changes.
func WithLogger(l *logger.Logger) Option {
	return func(d *Doer) { d.log = l }
}

// Wrap returns next guarded by the policies enabled in cfg.
func Wrap(next httpclient.Doer, cfg Config, opts ...Option) *Doer {
	cfg.ApplyDefaults()
	d := &Doer{
		next:  next,
		retry: cfg.Retry,
		log:   logger.Nop(),
		sleep: sleepContext,
		rnd:   rand.Float64,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.WithComponent("resilience")

	if cfg.CircuitBreaker != nil {
		d.breaker = NewCircuitBreaker(*cfg.CircuitBreaker)
		d.breaker.onStateChange = func(from, to State) {
			d.log.Warn("circuit breaker state changed", logger.Fields("from", from.String(), "to", to.String()))
		}
	}
	if cfg.RateLimit != nil {
		d.limiter = newRateLimiter(*cfg.RateLimit, time.Now, d.sleepFn)
	}
	if cfg.MaxConcurrent > 0 {
		d.slots = make(chan struct{}, cfg.MaxConcurrent)
	}
	return d
}

// Breaker returns the circuit breaker, nil when disabled.
func (d *Doer) Breaker() *CircuitBreaker { return d.breaker }

// Do sends req, retrying according to the retry policy. After the last
// attempt the final response and error are returned unchanged.
func (d *Doer) Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
	attempts := 1
	if d.retry != nil {
		attempts = d.retry.MaxAttempts
	}

	for attempt := 1; ; attempt++ {
		resp, err := d.attempt(ctx, req)
		if attempt >= attempts || !d.retry.retryable(ctx, req.Method, resp, err) {
			return resp, err
		}

		wait := d.retry.delay(attempt, resp, d.rnd)
		fields := logger.Fields(logger.FieldMethod, req.Method, "attempt", attempt, "backoff_ms", wait.Milliseconds())
		if resp != nil {
			fields[logger.FieldStatus] = resp.StatusCode
		}
		d.log.WithContext(ctx).WithError(err).Warn("retrying API call", fields)

		if sleepErr := d.sleep(ctx, wait); sleepErr != nil {
			return resp, err
		}
	}
}

func (d *Doer) attempt(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
	if d.slots != nil {
		select {
		case d.slots <- struct{}{}:
			defer func() { <-d.slots }()
		case <-ctx.Done():
			return nil, httpclient.NewTimeoutError(ctx.Err())
		}
	}
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, httpclient.NewTimeoutError(err)
		}
	}
	if d.breaker != nil {
		if err := d.breaker.Allow(); err != nil {
			return nil, err
		}
	}

	resp, err := d.next.Do(ctx, req)

	if d.breaker != nil {
		d.breaker.Record(err != nil || (resp != nil && resp.StatusCode >= 500))
	}
	return resp, err
}

func (d *Doer) sleepFn(ctx context.Context, dur time.Duration) error {
	return d.sleep(ctx, dur)
}
