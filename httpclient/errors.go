package httpclient

import (
	"errors"
	"fmt"
)

// ErrorCode classifies HTTP transport errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeAuth indicates a 401/403 response (FailOnStatus only).
	ErrCodeAuth
	// ErrCodeNotFound indicates a 404 response (FailOnStatus only).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates a 429 response (FailOnStatus only).
	ErrCodeRateLimit
	// ErrCodeValidation indicates an invalid request or a 4xx response.
	ErrCodeValidation
	// ErrCodeServer indicates a 5xx response (FailOnStatus only).
	ErrCodeServer
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a classified transport error. Errors produced from a status code
// keep the response they were built from.
type Error struct {
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Retryable indicates whether the operation can be retried.
	Retryable bool
	// Response is the response that caused the error, if any.
	Response *Response
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// HasResponse reports whether the error carries the HTTP response.
func (e *Error) HasResponse() bool {
	return e.Response != nil
}

// ResponseStatus returns the HTTP status of the failure, 0 if none.
func (e *Error) ResponseStatus() int {
	if e.Response != nil {
		return e.Response.StatusCode
	}
	return e.StatusCode
}

// ResponseBody returns the body of the carried response, nil if none.
func (e *Error) ResponseBody() []byte {
	if e.Response != nil {
		return e.Response.Body
	}
	return nil
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{
		Code:      ErrCodeTimeout,
		Message:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{
		Code:      ErrCodeConnection,
		Message:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

// NewValidationError creates an error for a request that could not be built.
func NewValidationError(msg string) *Error {
	return &Error{
		Code:      ErrCodeValidation,
		Message:   msg,
		Retryable: false,
	}
}

// StatusError converts a response with status 400 or above into an error
// that carries it. Returns nil for any other status.
func StatusError(resp *Response) *Error {
	if resp == nil || resp.StatusCode < 400 {
		return nil
	}
	e := &Error{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		Response:   resp,
	}
	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		e.Code = ErrCodeAuth
	case resp.StatusCode == 404:
		e.Code = ErrCodeNotFound
	case resp.StatusCode == 429:
		e.Code = ErrCodeRateLimit
		e.Retryable = true
	case resp.StatusCode < 500:
		e.Code = ErrCodeValidation
	default:
		e.Code = ErrCodeServer
		e.Retryable = true
	}
	return e
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConnection
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
