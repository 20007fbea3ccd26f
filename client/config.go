package client

import (
	"time"

	"github.com/petjeaf/petjeaf-go/auth"
	"github.com/petjeaf/petjeaf-go/config"
	"github.com/petjeaf/petjeaf-go/errors"
	"github.com/petjeaf/petjeaf-go/logger"
	"github.com/petjeaf/petjeaf-go/resilience"
	"github.com/petjeaf/petjeaf-go/security"
	"github.com/petjeaf/petjeaf-go/util"
	"github.com/petjeaf/petjeaf-go/validation"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.petje.af/v1"
	// DefaultTimeout bounds every API call.
	DefaultTimeout = 10 * time.Second
)

// Config configures a Client.
type Config struct {
	// BaseURL is the API root. Surrounding whitespace and trailing slashes
	// are removed.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// AccessToken is the OAuth bearer token. It may be left empty and set
	// later with SetAccessToken; calls fail until it is.
	AccessToken string `yaml:"access_token" mapstructure:"access_token"`

	// Timeout bounds each call of the default transport.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// UserAgent is appended to the User-Agent marker.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// TLS configures the default transport. Verification stays on unless
	// skip_verify is set.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Logging enables client logs. Nil keeps the client silent.
	Logging *logger.Config `yaml:"logging" mapstructure:"logging"`

	// Resilience wraps the transport with retry, circuit breaking and
	// rate limiting. Nil sends every call exactly once.
	Resilience *resilience.Config `yaml:"resilience" mapstructure:"resilience"`
}

// ApplyDefaults normalises the base URL and token and fills in defaults.
func (c *Config) ApplyDefaults() {
	c.BaseURL = util.Coalesce(util.TrimURL(c.BaseURL), DefaultBaseURL)
	c.AccessToken = auth.Normalize(c.AccessToken)
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logging != nil {
		c.Logging.ApplyDefaults()
	}
	if c.Resilience != nil {
		c.Resilience.ApplyDefaults()
	}
}

// Validate returns a CONFIGURATION error listing every invalid field.
func (c *Config) Validate() error {
	v := validation.New().Merge(validation.Struct(c))
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			v.AddError("tls", err.Error())
		}
	}
	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			v.AddError("logging", err.Error())
		}
	}
	if c.Resilience != nil {
		if err := c.Resilience.Validate(); err != nil {
			v.AddError("resilience", err.Error())
		}
	}
	if appErr := v.As(errors.Configuration); appErr != nil {
		return appErr
	}
	return nil
}

// LoadConfig reads a Config from petjeaf.yml, .env and PETJEAF_*
// environment variables, then applies defaults and validates it.
func LoadConfig(opts ...config.LoaderOption) (Config, error) {
	var cfg Config
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, errors.Configuration(err.Error()).WithCause(err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
