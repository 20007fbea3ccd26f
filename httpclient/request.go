package httpclient

import "context"

// Doer executes a single HTTP request. It is the transport capability the
// petje.af client depends on; tests and host applications can supply
// their own implementation.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(ctx context.Context, req Request) (*Response, error)

// Do calls f(ctx, req).
func (f DoerFunc) Do(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PATCH, DELETE, ...).
	Method string
	// URL is the absolute request URL including the query string.
	URL string
	// Headers are request-specific headers (merged with adapter defaults).
	// They are complete on their own; implementations that ignore Auth
	// still send an authenticated request.
	Headers map[string]string
	// Body is the encoded request body; nil sends no body.
	Body []byte
	// Auth overrides the adapter-level auth for this request.
	Auth *AuthConfig
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, first value per key.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}
