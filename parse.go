// File: conftree/parse.go
package conftree

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// whitespace is the separator set for configuration values: space, tab,
// carriage return, line feed.
const whitespace = " \t\r\n"

// trim removes leading and trailing whitespace.
func trim(s string) string {
	return strings.Trim(s, whitespace)
}

// fields splits s on runs of whitespace. An empty or all-whitespace input
// yields no fields.
func fields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
}

// ParseFunc converts a raw configuration string into a T.
type ParseFunc[T any] func(string) (T, error)

// customParsers maps a concrete type to its registered converter. Entries
// are consulted before the built-in kind dispatch, including for array and
// slice elements. Registration happens at init time; the map is read-only
// afterwards.
var customParsers = map[reflect.Type]func(string) (any, error){}

// RegisterParser installs fn as the converter used by Get and GetDefault
// for values of type T, taking precedence over the built-in handling.
// Call it during init; registration is not synchronized.
func RegisterParser[T any](fn ParseFunc[T]) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	customParsers[rt] = func(s string) (any, error) {
		return fn(s)
	}
}

func init() {
	// Durations would otherwise parse as their underlying int64.
	RegisterParser(func(s string) (time.Duration, error) {
		return time.ParseDuration(trim(s))
	})
}

// parseValue converts s into a value of type rt. Scalars must consume the
// whole trimmed string, arrays require exactly as many whitespace-separated
// fields as elements, slices take any number.
func parseValue(rt reflect.Type, s string) (reflect.Value, error) {
	if fn, ok := customParsers[rt]; ok {
		v, err := fn(s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w %q as %s: %v", ErrParse, s, rt, err)
		}
		return reflect.ValueOf(v), nil
	}

	switch rt.Kind() {
	case reflect.String:
		v := reflect.New(rt).Elem()
		v.SetString(trim(s))
		return v, nil

	case reflect.Bool:
		b, err := parseBool(s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w %q as %s: %v", ErrParse, s, rt, numDetail(err))
		}
		v := reflect.New(rt).Elem()
		v.SetBool(b)
		return v, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(trim(s), 10, rt.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w %q as %s: %v", ErrParse, s, rt, numDetail(err))
		}
		v := reflect.New(rt).Elem()
		v.SetInt(n)
		return v, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(trim(s), 10, rt.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w %q as %s: %v", ErrParse, s, rt, numDetail(err))
		}
		v := reflect.New(rt).Elem()
		v.SetUint(n)
		return v, nil

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(trim(s), rt.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w %q as %s: %v", ErrParse, s, rt, numDetail(err))
		}
		v := reflect.New(rt).Elem()
		v.SetFloat(f)
		return v, nil

	case reflect.Array:
		fs := fields(s)
		if len(fs) != rt.Len() {
			return reflect.Value{}, fmt.Errorf("%w %q as %s: expected %d whitespace-separated fields, got %d",
				ErrParse, s, rt, rt.Len(), len(fs))
		}
		v := reflect.New(rt).Elem()
		for i, f := range fs {
			ev, err := parseValue(rt.Elem(), f)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w %q as %s: field %d: %v", ErrParse, s, rt, i, err)
			}
			v.Index(i).Set(ev)
		}
		return v, nil

	case reflect.Slice:
		fs := fields(s)
		v := reflect.MakeSlice(rt, len(fs), len(fs))
		for i, f := range fs {
			ev, err := parseValue(rt.Elem(), f)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w %q as %s: field %d: %v", ErrParse, s, rt, i, err)
			}
			v.Index(i).Set(ev)
		}
		return v, nil

	default:
		return reflect.Value{}, fmt.Errorf("%w %q as %s: unsupported target type", ErrParse, s, rt)
	}
}

// parseBool accepts yes/true and no/false in any case, or any base-10
// integer where nonzero means true.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(trim(s)) {
	case "yes", "true":
		return true, nil
	case "no", "false":
		return false, nil
	}
	n, err := strconv.ParseInt(trim(s), 10, 64)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// numDetail strips the strconv function noise from number parse errors,
// leaving "invalid syntax" or "value out of range".
func numDetail(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
