// Package jsonval wraps untyped JSON results in an explicit Value type so
// that the absence of a declared output schema stays visible at call sites.
// Generated tool wrappers return a Value whenever the server did not publish
// an output schema; callers then use the accessor helpers instead of blind
// type assertions.
package jsonval

import (
	"encoding/json"
	"fmt"
)

// Value is a tagged wrapper around an arbitrary decoded JSON value
// (map[string]any, []any, string, float64, bool, or nil).
type Value struct {
	raw any
}

// Of wraps a decoded JSON value.
func Of(v any) Value {
	return Value{raw: v}
}

// Raw returns the underlying decoded value.
func (v Value) Raw() any { return v.raw }

// IsNull reports whether the value is JSON null (or was never set).
func (v Value) IsNull() bool { return v.raw == nil }

// Has reports whether the value is a JSON object containing the given key.
func (v Value) Has(key string) bool {
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return false
	}
	_, ok = obj[key]
	return ok
}

// Get returns the member under key when the value is a JSON object holding
// that key.
func (v Value) Get(key string) (Value, bool) {
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return Value{}, false
	}
	member, ok := obj[key]
	if !ok {
		return Value{}, false
	}
	return Value{raw: member}, true
}

// GetDefault returns the member under key, or def when the key is absent or
// the value is not an object.
func (v Value) GetDefault(key string, def any) any {
	member, ok := v.Get(key)
	if !ok {
		return def
	}
	return member.raw
}

// Require returns the member under key or an error naming the missing key.
func (v Value) Require(key string) (Value, error) {
	member, ok := v.Get(key)
	if !ok {
		return Value{}, fmt.Errorf("jsonval: required key %q not present", key)
	}
	return member, nil
}

// String returns the value as a string when it is one.
func (v Value) String() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Float returns the value as a float64 when it is a JSON number.
func (v Value) Float() (float64, bool) {
	f, ok := v.raw.(float64)
	return f, ok
}

// Bool returns the value as a bool when it is one.
func (v Value) Bool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, ok
}

// Slice returns the value as a []any when it is a JSON array.
func (v Value) Slice() ([]any, bool) {
	s, ok := v.raw.([]any)
	return s, ok
}

// MarshalJSON encodes the wrapped value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// UnmarshalJSON decodes into the wrapped value.
func (v *Value) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &v.raw)
}
