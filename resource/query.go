package resource

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// QueryString renders params as "?k=v&..." in insertion order, or "" when
// nothing remains to send. Booleans become "true"/"false", nil values are
// dropped, and slices and maps expand to "key[i]" / "key[sub]" entries.
// Keys and values are form-encoded, so a space becomes "+".
func QueryString(params *Values) string {
	var pairs []string
	params.Each(func(k string, v any) {
		pairs = appendPairs(pairs, k, v)
	})
	if len(pairs) == 0 {
		return ""
	}
	return "?" + strings.Join(pairs, "&")
}

func appendPairs(pairs []string, key string, value any) []string {
	if isNil(value) {
		return pairs
	}
	switch v := value.(type) {
	case nil:
		return pairs
	case *Values:
		v.Each(func(k string, sub any) {
			pairs = appendPairs(pairs, key+"["+k+"]", sub)
		})
		return pairs
	case string, bool, json.Number, fmt.Stringer:
		return append(pairs, encodePair(key, scalarString(v)))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return appendPairs(pairs, key, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return append(pairs, encodePair(key, string(rv.Bytes())))
		}
		for i := 0; i < rv.Len(); i++ {
			pairs = appendPairs(pairs, key+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
		}
		return pairs
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		for _, mk := range rv.MapKeys() {
			s := fmt.Sprint(mk.Interface())
			keys = append(keys, s)
			byKey[s] = mk
		}
		sort.Strings(keys)
		for _, k := range keys {
			pairs = appendPairs(pairs, key+"["+k+"]", rv.MapIndex(byKey[k]).Interface())
		}
		return pairs
	}
	return append(pairs, encodePair(key, scalarString(value)))
}

// isNil reports nil values and typed nil pointers, maps, slices and funcs.
func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func encodePair(key, value string) string {
	return url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
