package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket. Wait reserves a token and sleeps until
// it becomes available, so concurrent callers queue in arrival order.
type RateLimiter struct {
	rate  float64
	burst float64
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a full bucket.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 10
	}
	cfg := Config{RateLimit: &config}
	cfg.ApplyDefaults()
	return newRateLimiter(config, time.Now, sleepContext)
}

func newRateLimiter(config RateLimitConfig, now func() time.Time, sleep func(context.Context, time.Duration) error) *RateLimiter {
	return &RateLimiter{
		rate:       config.Rate,
		burst:      float64(config.Burst),
		now:        now,
		sleep:      sleep,
		tokens:     float64(config.Burst),
		lastRefill: now(),
	}
}

// Wait blocks until a request is allowed or ctx is done. A caller that
// gives up hands its reserved token back.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	var err error
	if d := rl.reserve(); d > 0 {
		err = rl.sleep(ctx, d)
	} else {
		err = ctx.Err()
	}
	if err != nil {
		rl.release()
	}
	return err
}

// Tokens returns the current number of available tokens. Negative values
// are reservations not yet served.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

// reserve takes a token and returns how long until it is valid.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	rl.tokens--
	if rl.tokens >= 0 {
		return 0
	}
	return time.Duration(-rl.tokens / rl.rate * float64(time.Second))
}

func (rl *RateLimiter) release() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	rl.tokens++
	if rl.tokens > rl.burst {
		rl.tokens = rl.burst
	}
}

func (rl *RateLimiter) refill() {
	now := rl.now()
	rl.tokens += now.Sub(rl.lastRefill).Seconds() * rl.rate
	rl.lastRefill = now
	if rl.tokens > rl.burst {
		rl.tokens = rl.burst
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
