package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Values is an insertion-ordered mapping used for query parameters and
// request bodies. Setting an existing key replaces its value but keeps
// its position. A nil *Values is empty.
type Values struct {
	keys []string
	vals map[string]any
}

// NewValues builds Values from alternating key/value pairs. It panics when
// a key is not a string or a value is missing, like a malformed literal.
func NewValues(pairs ...any) *Values {
	if len(pairs)%2 != 0 {
		panic("resource: NewValues needs key/value pairs")
	}
	v := &Values{}
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("resource: NewValues key %v is not a string", pairs[i]))
		}
		v.Set(key, pairs[i+1])
	}
	return v
}

// FromMap builds Values from m with keys in sorted order.
func FromMap(m map[string]any) *Values {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	v := &Values{}
	for _, k := range keys {
		v.Set(k, m[k])
	}
	return v
}

// Set assigns value to key and returns v for chaining.
func (v *Values) Set(key string, value any) *Values {
	if v.vals == nil {
		v.vals = make(map[string]any)
	}
	if _, ok := v.vals[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.vals[key] = value
	return v
}

// Get returns the value stored under key.
func (v *Values) Get(key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	val, ok := v.vals[key]
	return val, ok
}

// Delete removes key.
func (v *Values) Delete(key string) {
	if v == nil {
		return
	}
	if _, ok := v.vals[key]; !ok {
		return
	}
	delete(v.vals, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}

// Keys returns the keys in insertion order.
func (v *Values) Keys() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Each calls fn for every entry in order.
func (v *Values) Each(fn func(key string, value any)) {
	if v == nil {
		return
	}
	for _, k := range v.keys {
		fn(k, v.vals[k])
	}
}

// Clone returns a shallow copy.
func (v *Values) Clone() *Values {
	out := &Values{}
	v.Each(func(k string, val any) { out.Set(k, val) })
	return out
}

// Merge returns a new Values holding v's entries followed by other's.
// A key present in both takes other's value at v's position.
func Merge(v, other *Values) *Values {
	out := v.Clone()
	other.Each(func(k string, val any) { out.Set(k, val) })
	return out
}

// Map returns the entries as an unordered map.
func (v *Values) Map() map[string]any {
	out := make(map[string]any, v.Len())
	v.Each(func(k string, val any) { out[k] = val })
	return out
}

// MarshalJSON encodes v as a JSON object with keys in insertion order.
func (v *Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range v.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the order of its top-level
// keys. Nested objects decode into map[string]any.
func (v *Values) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("resource: values must be a JSON object")
	}
	*v = Values{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("resource: unexpected token %v", tok)
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return err
		}
		v.Set(key, val)
	}
	_, err = dec.Token()
	return err
}
