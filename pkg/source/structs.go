package source

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Struct converts a struct (or pointer to one) into a nested map. Keys come
// from `form` tags and default to the field name. Nested structs, including
// those inside slices, become maps as well. Struct types without exported
// fields, such as time.Time, come out empty; format them as strings first.
func Struct(v any) (map[string]any, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: expected a struct, got %T", ErrFailedToDecodeStruct, v)
	}

	out := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "form",
		Result:  &out,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToDecodeStruct, err)
	}
	if err := dec.Decode(rv.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToDecodeStruct, err)
	}

	for k, val := range out {
		if out[k], err = plain(val); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// plain rewrites leftover structs and typed slices into maps and []any.
func plain(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Elem().Kind() == reflect.Struct {
			return Struct(v)
		}
	case reflect.Struct:
		return Struct(v)
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v, nil
		}
		list := make([]any, rv.Len())
		for i := range rv.Len() {
			item, err := plain(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			list[i] = item
		}
		return list, nil
	case reflect.Map:
		if m, ok := v.(map[string]any); ok {
			for k, item := range m {
				var err error
				if m[k], err = plain(item); err != nil {
					return nil, err
				}
			}
		}
	}
	return v, nil
}
