// Package errors defines the single error type returned by the petje.af
// client, its classification codes, and the translation of HTTP responses
// and transport failures into that type.
package errors

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
)

// Error is the structured error returned by every client operation.
type Error struct {
	// Code classifies the failure.
	Code ErrorCode `json:"code"`
	// Message is the human-readable message.
	Message string `json:"message"`
	// HTTPStatus is the status code of the response that caused the error.
	// Zero when no response was involved or it could not be interpreted.
	HTTPStatus int `json:"status,omitempty"`
	// Field names the request field the API rejected, if any.
	Field string `json:"field,omitempty"`
	// Retryable reports whether repeating the call may succeed.
	Retryable bool `json:"retryable"`
	// Details carries additional context such as the envelope title and detail.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error returns the human-readable message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the cause. API errors without a cause unwrap to the
// standard library sentinel matching their status, so errors.Is works with
// fs.ErrNotExist and os.ErrPermission.
func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	if e.Code != ErrCodeAPI {
		return nil
	}
	switch e.HTTPStatus {
	case http.StatusNotFound:
		return fs.ErrNotExist
	case http.StatusUnauthorized, http.StatusForbidden:
		return os.ErrPermission
	default:
		return nil
	}
}

// WithCause sets the underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetails merges details into the error and returns the receiver.
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an Error with retryable detection from the code and status.
func New(code ErrorCode, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  isRetryable(code, httpStatus),
	}
}

// --- Validation ---

// Validation creates a VALIDATION error.
func Validation(message string) *Error {
	return New(ErrCodeValidation, message, 0)
}

// InvalidResourceID is returned when read, update or delete is called
// without an identifier.
func InvalidResourceID() *Error {
	return Validation("Invalid resource id.")
}

// --- Encoding ---

// Encoding wraps a JSON serialization failure of a request body.
func Encoding(cause error) *Error {
	return New(ErrCodeEncoding, fmt.Sprintf("Error encoding parameters into JSON: '%s'.", cause.Error()), 0).
		WithCause(cause)
}

// --- Configuration ---

// Configuration creates a CONFIGURATION error.
func Configuration(message string) *Error {
	return New(ErrCodeConfiguration, message, 0)
}

// MissingAccessToken is returned by any call made before a token is set.
func MissingAccessToken() *Error {
	return Configuration("You have not set an access token. Please use SetAccessToken() to set the access token.")
}

// MissingParent is returned when a nested resource path is resolved without
// its parent identifier.
func MissingParent(path, parent string) *Error {
	return Configuration(fmt.Sprintf("Subresource '%s' used without parent '%s' ID.", path, parent)).
		WithDetail("resource", path)
}

// UnsupportedOperation is returned when an endpoint is asked to perform an
// operation it was not configured with.
func UnsupportedOperation(op, path string) *Error {
	return Configuration(fmt.Sprintf("operation %s is not supported by resource '%s'", op, path)).
		WithDetail("resource", path)
}

// --- Transport ---

// Transport creates a TRANSPORT error from a failure without a usable response.
func Transport(message string, httpStatus int, cause error) *Error {
	e := New(ErrCodeTransport, message, httpStatus)
	e.Retryable = true
	return e.WithCause(cause)
}

// NoResponse is returned when the transport reported neither a response nor an error.
func NoResponse() *Error {
	return New(ErrCodeTransport, "Did not receive API response.", 0)
}

// --- Decoding ---

// Undecodable is returned when a response body is not valid JSON. It
// carries neither status nor field.
func Undecodable(body []byte, cause error) *Error {
	return New(ErrCodeDecoding, fmt.Sprintf("Unable to decode response: '%s'.", string(body)), 0).
		WithCause(cause)
}

// EmptyBody is returned when a response other than 204 has no body.
func EmptyBody(httpStatus int) *Error {
	return New(ErrCodeDecoding, "No response body found.", httpStatus)
}

// --- API ---

// API creates an API error from a decoded error envelope and the actual
// HTTP status of the response.
func API(env Envelope, httpStatus int) *Error {
	e := New(ErrCodeAPI, env.Message(), httpStatus)
	e.Field = env.Field
	return e.WithDetails(map[string]any{
		"status": env.Status,
		"title":  env.Title,
		"detail": env.Detail,
	})
}
