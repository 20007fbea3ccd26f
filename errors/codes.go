package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorCode represents a machine-readable error classification.
type ErrorCode string

const (
	// ErrCodeValidation indicates the caller passed an invalid argument,
	// such as an empty resource id. No request was sent.
	ErrCodeValidation ErrorCode = "VALIDATION"
	// ErrCodeEncoding indicates the request body could not be serialized.
	ErrCodeEncoding ErrorCode = "ENCODING"
	// ErrCodeTransport indicates the request failed without a usable response.
	ErrCodeTransport ErrorCode = "TRANSPORT"
	// ErrCodeAPI indicates the API answered with a status of 400 or above.
	ErrCodeAPI ErrorCode = "API"
	// ErrCodeDecoding indicates the response body was missing or not valid JSON.
	ErrCodeDecoding ErrorCode = "DECODING"
	// ErrCodeConfiguration indicates the client or endpoint is misconfigured
	// for the call, such as a missing access token or parent id.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
)

func isRetryable(code ErrorCode, httpStatus int) bool {
	switch code {
	case ErrCodeTransport:
		return true
	case ErrCodeAPI:
		return httpStatus == http.StatusTooManyRequests || httpStatus >= 500
	default:
		return false
	}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// IsValidation reports whether err is a VALIDATION error.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsEncoding reports whether err is an ENCODING error.
func IsEncoding(err error) bool { return hasCode(err, ErrCodeEncoding) }

// IsTransport reports whether err is a TRANSPORT error.
func IsTransport(err error) bool { return hasCode(err, ErrCodeTransport) }

// IsAPI reports whether err is an API error.
func IsAPI(err error) bool { return hasCode(err, ErrCodeAPI) }

// IsDecoding reports whether err is a DECODING error.
func IsDecoding(err error) bool { return hasCode(err, ErrCodeDecoding) }

// IsConfiguration reports whether err is a CONFIGURATION error.
func IsConfiguration(err error) bool { return hasCode(err, ErrCodeConfiguration) }

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	e, ok := As(err)
	return ok && e.Code == ErrCodeAPI && e.HTTPStatus == http.StatusNotFound
}

// IsRetryable reports whether err is marked retryable.
func IsRetryable(err error) bool {
	e, ok := As(err)
	return ok && e.Retryable
}
