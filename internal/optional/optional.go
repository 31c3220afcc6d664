// Package optional provides an explicit present/absent value used for
// configuration fields that the orchestrator treats as "unset" rather than
// as a zero value.
package optional

import "encoding/json"

// Value holds a T that may be absent.
type Value[T any] struct {
	value T
	set   bool
}

// Some returns a present value.
func Some[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

// None returns an absent value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.set
}

// Present reports whether a value was supplied.
func (o Value[T]) Present() bool {
	return o.set
}

// OrElse returns the value when present, fallback otherwise.
func (o Value[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// IsZero reports absence. encoding/json (omitzero) and yaml.v3 (omitempty)
// both consult it, so absent fields disappear from encoded output.
func (o Value[T]) IsZero() bool {
	return !o.set
}

// MarshalJSON encodes the value, or null when absent.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// MarshalYAML encodes the value, or null when absent.
func (o Value[T]) MarshalYAML() (interface{}, error) {
	if !o.set {
		return nil, nil
	}
	return o.value, nil
}
