package errors

import stderrors "errors"

// ResponseCarrier is implemented by transport failures that still hold the
// HTTP response that caused them.
type ResponseCarrier interface {
	HasResponse() bool
	ResponseStatus() int
	ResponseBody() []byte
}

// FromResponse translates a response with status 400 or above. A body that
// is not valid JSON yields a DECODING error without status; any other body
// becomes an API error carrying the response status, with the envelope
// fields left empty when the body is not a JSON object.
func FromResponse(status int, body []byte) *Error {
	env, err := DecodeEnvelope(body)
	if err != nil {
		return Undecodable(body, err)
	}
	return API(env, status)
}

// FromTransport translates an error returned by the transport. Errors that
// are already *Error pass through unchanged.
func FromTransport(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}

	var carrier ResponseCarrier
	if stderrors.As(err, &carrier) {
		if carrier.HasResponse() {
			return FromResponse(carrier.ResponseStatus(), carrier.ResponseBody())
		}
		return Transport(err.Error(), carrier.ResponseStatus(), err)
	}
	return Transport(err.Error(), 0, err)
}
