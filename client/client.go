package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/petjeaf/petjeaf-go/auth"
	"github.com/petjeaf/petjeaf-go/config"
	"github.com/petjeaf/petjeaf-go/errors"
	"github.com/petjeaf/petjeaf-go/httpclient"
	"github.com/petjeaf/petjeaf-go/logger"
	"github.com/petjeaf/petjeaf-go/observability"
	"github.com/petjeaf/petjeaf-go/resilience"
	"github.com/petjeaf/petjeaf-go/resource"
	"github.com/petjeaf/petjeaf-go/util"
	"github.com/petjeaf/petjeaf-go/version"
)

// HeaderRequestID carries the per-call request id.
const HeaderRequestID = "X-Request-Id"

// Client calls the petje.af API. It is safe for concurrent use; the base
// URL and token may be replaced while calls are in flight, each call
// reads a consistent snapshot.
type Client struct {
	mu      sync.RWMutex
	baseURL string

	creds     *auth.Credentials
	doer      httpclient.Doer
	userAgent string
	log       *logger.Logger
	inst      *observability.Instrumentation

	Memberships       *Memberships
	MembershipRewards *MembershipRewards
	Pages             *Pages
	PagePlans         *PagePlans
	PageRewards       *PageRewards
}

// compile-time assertion
var _ resource.Caller = (*Client)(nil)

type options struct {
	doer           httpclient.Doer
	log            *logger.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Client.
type Option func(*options)

// WithDoer replaces the default HTTP transport.
func WithDoer(d httpclient.Doer) Option {
	return func(o *options) { o.doer = d }
}

// WithLogger sets the logger, overriding Config.Logging.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTracerProvider sets the provider for call spans. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the provider for call metrics. Defaults to the
// global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// New creates a Client. A missing access token is not an error here;
// calls fail with a CONFIGURATION error until one is set.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.doer == nil {
		adapter, err := httpclient.New(httpclient.Config{Timeout: cfg.Timeout, TLS: cfg.TLS})
		if err != nil {
			return nil, errors.Configuration(err.Error()).WithCause(err)
		}
		o.doer = adapter
	}

	if o.log == nil {
		o.log = logger.Nop()
		if cfg.Logging != nil {
			o.log = logger.New(cfg.Logging, version.Product)
		}
	}

	if cfg.Resilience != nil {
		o.doer = resilience.Wrap(o.doer, *cfg.Resilience, resilience.WithLogger(o.log))
	}

	inst, err := observability.NewInstrumentation(o.tracerProvider, o.meterProvider)
	if err != nil {
		return nil, errors.Configuration("instrumentation: " + err.Error()).WithCause(err)
	}

	c := &Client{
		baseURL:   cfg.BaseURL,
		creds:     &auth.Credentials{},
		doer:      o.doer,
		userAgent: version.UserAgent(cfg.UserAgent),
		log:       o.log.WithComponent("client"),
		inst:      inst,
	}
	c.SetAccessToken(cfg.AccessToken)
	c.initResources()
	return c, nil
}

// NewFromEnv loads the configuration with LoadConfig and creates a Client.
func NewFromEnv(loadOpts []config.LoaderOption, opts ...Option) (*Client, error) {
	cfg, err := LoadConfig(loadOpts...)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// SetAccessToken replaces the bearer token. Surrounding whitespace is
// removed. A JWT that has already expired is accepted but logged.
func (c *Client) SetAccessToken(token string) {
	c.creds.Set(token)
	if !c.creds.HasToken() {
		return
	}
	claims, err := auth.Inspect(token)
	if err != nil {
		return
	}
	if claims.Expired(time.Now()) {
		c.log.Warn("access token has expired", logger.Fields(
			logger.FieldToken, c.creds.Masked(),
			"expires_at", claims.ExpiresAt,
		))
	}
}

// SetBaseURL replaces the API root, trimming whitespace and trailing slashes.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = util.TrimURL(baseURL)
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// Call performs a request against path relative to the base URL. path may
// include a query string; body is encoded JSON or nil. A 204 response
// yields a Result with a nil Body.
func (c *Client) Call(ctx context.Context, method, path string, body []byte) (*resource.Result, error) {
	return c.CallURL(ctx, method, c.BaseURL()+"/"+strings.TrimLeft(path, "/"), body)
}

// CallURL performs a request against an absolute URL.
func (c *Client) CallURL(ctx context.Context, method, rawURL string, body []byte) (*resource.Result, error) {
	token := c.creds.Token()
	if token == "" {
		return nil, errors.MissingAccessToken()
	}

	requestID := uuid.NewString()
	ctx = logger.ContextWithRequestID(ctx, requestID)
	log := c.log.WithContext(ctx)

	info := observability.CallInfo{Method: method, RequestID: requestID}
	if u, err := url.Parse(rawURL); err == nil {
		info.Path, info.Host = u.Path, u.Host
	}
	ctx, call := c.inst.Start(ctx, info)

	headers := map[string]string{
		"Accept":        "application/json",
		"Authorization": "Bearer " + token,
		"User-Agent":    c.userAgent,
		HeaderRequestID: requestID,
	}
	observability.InjectHeaders(ctx, headers)

	log.Debug("calling API", logger.Fields(
		logger.FieldMethod, method,
		logger.FieldURL, rawURL,
		logger.FieldToken, c.creds.Masked(),
	))

	start := time.Now()
	resp, err := c.doer.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     rawURL,
		Headers: headers,
		Body:    body,
		Auth:    httpclient.BearerAuth(token),
	})
	result, appErr := parseResponse(resp, err)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	if appErr != nil {
		call.End(ctx, status, appErr)
		log.WithError(appErr).Debug("API call failed", logger.Fields(
			logger.FieldMethod, method,
			logger.FieldCode, string(appErr.Code),
			logger.FieldStatus, util.Coalesce(status, appErr.HTTPStatus),
			logger.FieldDuration, elapsed.Milliseconds(),
		))
		return nil, appErr
	}

	call.End(ctx, status, nil)
	log.Debug("API call completed", logger.Fields(
		logger.FieldMethod, method,
		logger.FieldStatus, status,
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return result, nil
}

// parseResponse turns the transport outcome into a Result. The body is
// checked before the status so that an empty error response reports the
// missing body.
func parseResponse(resp *httpclient.Response, err error) (*resource.Result, *errors.Error) {
	if err != nil {
		return nil, errors.FromTransport(err)
	}
	if resp == nil {
		return nil, errors.NoResponse()
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		if resp.StatusCode == http.StatusNoContent {
			return &resource.Result{StatusCode: resp.StatusCode}, nil
		}
		return nil, errors.EmptyBody(resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, errors.Undecodable(resp.Body, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errors.FromResponse(resp.StatusCode, resp.Body)
	}
	return &resource.Result{StatusCode: resp.StatusCode, Body: raw}, nil
}
