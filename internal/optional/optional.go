// Package optional tracks whether a JSON field was present in a request body.
//
// A PUT body distinguishes three states per field: omitted (leave the stored
// value alone), explicit null (clear it) and a value (replace it). A plain
// pointer collapses the first two, so update payloads use Value instead.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value holds a decoded JSON field together with its presence.
type Value[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of returns a present, non-null Value.
func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, Value: v}
}

// Null returns a present Value that was explicitly null.
func Null[T any]() Value[T] {
	return Value[T]{Set: true, Null: true}
}

// UnmarshalJSON records presence; it is only called for keys present in the body.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		v.Null = true
		v.Value = zero
		return nil
	}
	v.Null = false
	return json.Unmarshal(data, &v.Value)
}

// MarshalJSON writes the held value, or null when absent or null.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.Set || v.Null {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}

// HasValue reports whether the field was sent with a non-null value.
func (v Value[T]) HasValue() bool {
	return v.Set && !v.Null
}

// Ptr converts a present field into the pointer form stored in nullable
// columns: nil for null, a pointer to the value otherwise.
func (v Value[T]) Ptr() *T {
	if !v.HasValue() {
		return nil
	}
	val := v.Value
	return &val
}

// Addr returns a pointer to the held value when present and non-null, nil
// otherwise. Validators treat a non-nil pointer as set, so `omitempty` still
// checks an explicit empty string.
func (v Value[T]) Addr() any {
	if !v.HasValue() {
		return nil
	}
	val := v.Value
	return &val
}
