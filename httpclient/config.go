package httpclient

import (
	"fmt"
	"time"
)

const (
	// DefaultTimeout bounds every request made by the adapter.
	DefaultTimeout = 10 * time.Second
)

// Config configures the HTTP adapter.
type Config struct {
	// Timeout is the request timeout. Defaults to 10s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// TLS configures TLS settings for the transport. Certificate
	// verification stays enabled unless SkipVerify is set explicitly.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth configures default authentication applied to all requests.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// FailOnStatus makes Do return an *Error, carrying the response, for
	// status codes of 400 and above.
	FailOnStatus bool `yaml:"fail_on_status" mapstructure:"fail_on_status"`

	// DisableHTTP2 keeps the transport on HTTP/1.1.
	DisableHTTP2 bool `yaml:"disable_http2" mapstructure:"disable_http2"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
