package resource

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/petjeaf/petjeaf-go/errors"
)

// Document is a loosely typed JSON object returned by the API.
type Document map[string]any

// Decode re-encodes d into v, for callers that want a concrete shape
// after the fact.
func (d Document) Decode(v any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// String returns the string value at key, "" when absent.
func (d Document) String(key string) string {
	switch v := d[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Items returns the "data" array of a collection document as Documents.
// Entries that are not objects are skipped.
func (d Document) Items() []Document {
	raw, _ := d["data"].([]any)
	out := make([]Document, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Document(m))
		}
	}
	return out
}

// Query runs a jq expression against d and returns every emitted value,
// e.g. `.data[] | select(.active) | .id`.
func (d Document) Query(expression string) ([]any, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("invalid query %q: %v", expression, err)).WithCause(err)
	}

	var input any = map[string]any(d)
	if d == nil {
		input = nil
	}

	iter := query.Run(input)
	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, errors.Validation(fmt.Sprintf("query %q failed: %v", expression, err)).WithCause(err)
		}
		results = append(results, v)
	}
	return results, nil
}
