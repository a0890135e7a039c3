// File: conftree/get.go
package conftree

import (
	"fmt"
	"reflect"
)

// Get returns the value under the dotted key converted to T. Built-in
// conversions cover strings (trimmed), bools (yes/true, no/false, or a
// nonzero integer), all integer and float sizes (whole-string, base 10),
// fixed-size arrays such as [4]int ([N]bool acts as a bit set) and slices,
// the composite forms reading whitespace-separated fields. RegisterParser
// adds or overrides types. Lookup failures carry ErrNotFound or
// ErrCollision, conversion failures ErrParse with the raw string, the full
// key and the target type in the message.
func Get[T any](t *Tree, key string) (T, error) {
	var zero T
	raw, err := t.Get(key)
	if err != nil {
		return zero, err
	}
	rt := reflect.TypeOf(zero)
	if rt == nil {
		return zero, fmt.Errorf("key %q: %w %q as untyped interface", t.prefix+key, ErrParse, raw)
	}
	v, err := parseValue(rt, raw)
	if err != nil {
		return zero, fmt.Errorf("key %q: %w", t.prefix+key, err)
	}
	return v.Interface().(T), nil
}

// GetDefault is Get with a fallback: a missing key returns def without
// error. Collisions and conversion failures still surface.
func GetDefault[T any](t *Tree, key string, def T) (T, error) {
	ok, err := t.HasKey(key)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		return def, nil
	}
	return Get[T](t, key)
}

// String retrieves the value under the dotted key as a trimmed string.
func (t *Tree) String(key string) (string, error) {
	return Get[string](t, key)
}

// Int64 retrieves the value under the dotted key as an int64.
func (t *Tree) Int64(key string) (int64, error) {
	return Get[int64](t, key)
}

// Bool retrieves the value under the dotted key as a bool.
func (t *Tree) Bool(key string) (bool, error) {
	return Get[bool](t, key)
}

// Float64 retrieves the value under the dotted key as a float64.
func (t *Tree) Float64(key string) (float64, error) {
	return Get[float64](t, key)
}
