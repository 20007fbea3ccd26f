package resilience

import (
	"fmt"
	"time"
)

// Config selects the policies applied by Wrap. Nil sections are disabled.
type Config struct {
	Retry          *RetryConfig     `yaml:"retry" mapstructure:"retry"`
	CircuitBreaker *BreakerConfig   `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	RateLimit      *RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	// MaxConcurrent caps requests in flight. Zero means unlimited.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// RetryConfig configures retries.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	// MaxBackoff caps every delay, including Retry-After.
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
	// Factor is the multiplier for exponential backoff.
	Factor float64 `yaml:"factor" mapstructure:"factor"`
	// Jitter adds randomness to backoff (0.0 to 1.0).
	Jitter float64 `yaml:"jitter" mapstructure:"jitter"`
	// NonIdempotent also retries POST and PATCH.
	NonIdempotent bool `yaml:"non_idempotent" mapstructure:"non_idempotent"`
}

// BreakerConfig configures the circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening.
	MaxFailures int `yaml:"max_failures" mapstructure:"max_failures"`
	// Cooldown is how long the circuit stays open before probing.
	Cooldown time.Duration `yaml:"cooldown" mapstructure:"cooldown"`
	// HalfOpenCalls is the number of probes allowed while half-open.
	HalfOpenCalls int `yaml:"half_open_calls" mapstructure:"half_open_calls"`
}

// RateLimitConfig configures the token bucket.
type RateLimitConfig struct {
	// Rate is the number of requests allowed per second.
	Rate float64 `yaml:"rate" mapstructure:"rate"`
	// Burst is the maximum burst size. Defaults to Rate rounded up.
	Burst int `yaml:"burst" mapstructure:"burst"`
}

// ApplyDefaults fills zero values of the enabled sections.
func (c *Config) ApplyDefaults() {
	if r := c.Retry; r != nil {
		if r.MaxAttempts <= 0 {
			r.MaxAttempts = 3
		}
		if r.InitialBackoff <= 0 {
			r.InitialBackoff = 100 * time.Millisecond
		}
		if r.MaxBackoff <= 0 {
			r.MaxBackoff = 10 * time.Second
		}
		if r.Factor <= 0 {
			r.Factor = 2.0
		}
	}
	if b := c.CircuitBreaker; b != nil {
		if b.MaxFailures <= 0 {
			b.MaxFailures = 5
		}
		if b.Cooldown <= 0 {
			b.Cooldown = 30 * time.Second
		}
		if b.HalfOpenCalls <= 0 {
			b.HalfOpenCalls = 1
		}
	}
	if l := c.RateLimit; l != nil && l.Burst <= 0 {
		l.Burst = int(l.Rate)
		if float64(l.Burst) < l.Rate {
			l.Burst++
		}
	}
}

// Validate checks values ApplyDefaults does not repair.
func (c *Config) Validate() error {
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("resilience: max_concurrent must not be negative")
	}
	if c.Retry != nil && (c.Retry.Jitter < 0 || c.Retry.Jitter > 1) {
		return fmt.Errorf("resilience: retry.jitter must be between 0 and 1")
	}
	if c.RateLimit != nil && c.RateLimit.Rate <= 0 {
		return fmt.Errorf("resilience: rate_limit.rate must be positive")
	}
	return nil
}
