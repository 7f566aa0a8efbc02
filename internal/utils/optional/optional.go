// Package optional provides a JSON-aware presence wrapper for partial updates.
//
// A Value distinguishes three states that a plain pointer cannot:
//   - absent: the field was not sent (Set == false)
//   - null:   the field was sent as JSON null (Set && Null)
//   - value:  the field was sent with a value (Set && !Null)
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is a tri-state optional field.
type Value[T any] struct {
	Set  bool
	Null bool
	V    T
}

// Of returns a present, non-null value.
func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, V: v}
}

// Null returns a present null value.
func Null[T any]() Value[T] {
	return Value[T]{Set: true, Null: true}
}

// Get returns the wrapped value when it is present and not null.
func (o Value[T]) Get() (T, bool) {
	if !o.Set || o.Null {
		var zero T
		return zero, false
	}
	return o.V, true
}

// Ptr returns nil for absent or null values.
func (o Value[T]) Ptr() *T {
	if v, ok := o.Get(); ok {
		return &v
	}
	return nil
}

// UnmarshalJSON is only invoked when the key is present in the payload.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.V = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.V)
}

// MarshalJSON writes null for absent and null values.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.V)
}
