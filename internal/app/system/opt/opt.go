// Package opt provides a tagged present/absent wrapper for request fields.
//
// A PATCH body that omits "module_number" must not renumber anything, while
// one that sends "module_number": 2 must, even when 2 is the current value.
// Plain ints (or pointers decoded by encoding/json) cannot tell "absent" from
// "explicit null"; Value can.
package opt

import (
	"bytes"
	"encoding/json"
)

// Value holds an optional T. The zero Value is absent.
type Value[T any] struct {
	present bool
	null    bool
	v       T
}

// Some returns a present Value holding v.
func Some[T any](v T) Value[T] {
	return Value[T]{present: true, v: v}
}

// None returns an absent Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Present reports whether the field was supplied at all (including null).
func (o Value[T]) Present() bool { return o.present }

// IsNull reports whether the field was supplied as JSON null.
func (o Value[T]) IsNull() bool { return o.present && o.null }

// Get returns the held value and whether a non-null value is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.present && !o.null
}

// OrElse returns the held value or def when absent or null.
func (o Value[T]) OrElse(def T) T {
	if v, ok := o.Get(); ok {
		return v
	}
	return def
}

// UnmarshalJSON marks the value present. encoding/json only calls it when the
// key exists in the object, which is what makes absence observable.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.null = true
		var zero T
		o.v = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.v)
}

// MarshalJSON writes the held value, or null when absent or null.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if v, ok := o.Get(); ok {
		return json.Marshal(v)
	}
	return []byte("null"), nil
}
