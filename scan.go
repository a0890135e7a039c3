// File: conftree/scan.go
package conftree

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the subtree under basePath into target, a non-nil struct
// pointer; "" scans from the root. Field names follow the "ini" tag. The
// tree's leaves are strings: weak typing converts them to the field types,
// a duration hook parses time.Duration spellings, and a fields hook splits
// whitespace-separated strings into slice elements ("2 3 5 7 11" fills a
// []uint). A missing basePath is ErrNotFound; decode failures wrap
// ErrParse.
func (t *Tree) Scan(basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("scan target must be a non-nil pointer, got %T", target)
	}

	node := t
	if basePath != "" {
		var err error
		node, err = t.SubTree(basePath, true)
		if err != nil {
			return err
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "ini",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToFieldsHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	if err := decoder.Decode(node.toMap()); err != nil {
		return fmt.Errorf("%w subtree %q into %T: %v", ErrParse, basePath, target, err)
	}
	return nil
}

// stringToFieldsHookFunc splits a whitespace-separated string bound for a
// slice or array into its fields, leaving the element conversion to the
// weak typing.
func stringToFieldsHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, to reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if to.Kind() != reflect.Slice && to.Kind() != reflect.Array {
			return data, nil
		}
		return fields(data.(string)), nil
	}
}
