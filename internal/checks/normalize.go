package checks

import (
	"math"
	"reflect"
)

// normalize maps numbers to int64 when integral and float64 otherwise, and
// string-keyed mappings to map[string]any, so that values decoded from
// YAML, JSON and CUE compare equal to each other and to function results.
func normalize(v any) any {
	switch val := v.(type) {
	case nil, string, bool, int64:
		return v
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		return normalizeAnyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalize(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return rv.Int()
	case rv.CanUint():
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u)
		}
		return float64(rv.Uint())
	case rv.CanFloat():
		f := rv.Float()
		if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return int64(f)
		}
		return f
	case rv.Kind() == reflect.String:
		return rv.String()
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	}
	return v
}

func normalizeAnyMap(m map[any]any) any {
	out := make(map[string]any, len(m))
	for k, e := range m {
		s, ok := k.(string)
		if !ok {
			mixed := make(map[any]any, len(m))
			for k, e := range m {
				mixed[normalize(k)] = normalize(e)
			}
			return mixed
		}
		out[s] = normalize(e)
	}
	return out
}
