package form

import (
	"reflect"
)

// Extractor pulls raw values out of a node's input. A Kind uses one
// Extractor for every declaration; override it with WithExtractor to adapt
// a different input shape.
//
// The *Set methods must never fail: an absent value yields an empty slice.
type Extractor interface {
	Value(input any, name string) any
	ValueSet(input any, name string) []any
	Struct(input any, name string) any
	StructSet(input any, name string) []any
}

// MapExtractor is the default Extractor. It performs key lookups on
// map[string]any, map[string]string and map[string][]string (url.Values)
// inputs; any other input has no values.
type MapExtractor struct{}

func (MapExtractor) Value(input any, name string) any {
	v, _ := lookup(input, name)
	if vs, ok := v.([]string); ok && isMultiValueMap(input) {
		if len(vs) == 0 {
			return nil
		}
		return vs[0]
	}
	return v
}

func (MapExtractor) ValueSet(input any, name string) []any {
	v, _ := lookup(input, name)
	return EnsureSlice(v)
}

func (MapExtractor) Struct(input any, name string) any {
	v, _ := lookup(input, name)
	return v
}

func (MapExtractor) StructSet(input any, name string) []any {
	v, _ := lookup(input, name)
	return EnsureSlice(v)
}

func lookup(input any, name string) (any, bool) {
	switch m := input.(type) {
	case map[string]any:
		v, ok := m[name]
		return v, ok
	case map[string]string:
		v, ok := m[name]
		return v, ok
	case map[string][]string:
		v, ok := m[name]
		return v, ok
	}

	// Named map types such as url.Values.
	rv := reflect.ValueOf(input)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

func isMultiValueMap(input any) bool {
	t := reflect.TypeOf(input)
	return t != nil && t.Kind() == reflect.Map && t.Elem() == reflect.TypeOf([]string(nil))
}

// EnsureSlice coerces v into a freshly allocated []any: nil becomes an
// empty slice, slices and arrays are copied element by element and any
// other value is wrapped. Strings and byte slices are treated as scalars.
func EnsureSlice(v any) []any {
	switch s := v.(type) {
	case nil:
		return []any{}
	case []any:
		out := make([]any, len(s))
		copy(out, s)
		return out
	case []string:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out
	case []map[string]any:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out
	case []byte:
		return []any{v}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return []any{}
	}
	out := make([]any, rv.Len())
	for i := range rv.Len() {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
