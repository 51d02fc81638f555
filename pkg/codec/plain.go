package codec

import (
	"reflect"
	"time"
)

type undefined struct{}

// Undefined is the absent-value sentinel. ToPlain drops object entries whose
// converted value is Undefined and replaces Undefined array elements with nil
// so element indices are preserved.
var Undefined = undefined{}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ToPlain converts an arbitrary value into a JSON-safe equivalent,
// recursively. Timestamps become ISO-8601 strings in UTC with millisecond
// precision. A map whose sole key is "value" is unwrapped to the inner value;
// a genuine single-entry map keyed "value" is indistinguishable from a
// wrapper and is unwrapped too — an intentional simplification, not a bug.
// Primitives and unrecognised types pass through unchanged.
func ToPlain(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case undefined:
		return Undefined
	case time.Time:
		return t.UTC().Format(isoMillis)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(isoMillis)
	case map[string]any:
		return plainMap(t)
	case []any:
		return plainSlice(t)
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	}
	return plainReflect(v)
}

func plainMap(m map[string]any) any {
	if inner, ok := unwrapValueRef(m); ok {
		return ToPlain(inner)
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		converted := ToPlain(value)
		if _, absent := converted.(undefined); absent {
			continue
		}
		out[key] = converted
	}
	return out
}

func plainSlice(s []any) []any {
	out := make([]any, len(s))
	for i, value := range s {
		converted := ToPlain(value)
		if _, absent := converted.(undefined); absent {
			converted = nil
		}
		out[i] = converted
	}
	return out
}

// unwrapValueRef applies the reactive-reference heuristic: a map with exactly
// one key named "value" is treated as a wrapper around that value. Maps with
// any additional keys are never unwrapped.
func unwrapValueRef(m map[string]any) (any, bool) {
	if len(m) != 1 {
		return nil, false
	}
	inner, ok := m["value"]
	return inner, ok
}

func plainReflect(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return ToPlain(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			converted := ToPlain(rv.Index(i).Interface())
			if _, absent := converted.(undefined); absent {
				converted = nil
			}
			out[i] = converted
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		generic := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			generic[iter.Key().String()] = iter.Value().Interface()
		}
		return plainMap(generic)
	default:
		return v
	}
}
