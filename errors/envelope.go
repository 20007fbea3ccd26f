package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Envelope is the canonical error body returned by the API:
//
//	{"status": 422, "title": "Unprocessable Entity", "detail": "...", "field": "amount"}
type Envelope struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}

// Message composes the error message for the envelope.
func (e Envelope) Message() string {
	return fmt.Sprintf("Error executing API call (%s: %s): %s", e.Status, e.Title, e.Detail)
}

// DecodeEnvelope parses an error body. It fails only when the body is not
// valid JSON. Bodies that are valid JSON but not an object (arrays, strings,
// null) yield an empty envelope; scalar members of any JSON type are
// rendered as text.
func DecodeEnvelope(body []byte) (Envelope, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Envelope{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Envelope{}, fmt.Errorf("invalid JSON after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return Envelope{}, nil
	}
	return Envelope{
		Status: scalar(obj["status"]),
		Title:  scalar(obj["title"]),
		Detail: scalar(obj["detail"]),
		Field:  scalar(obj["field"]),
	}, nil
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}
