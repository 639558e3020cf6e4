package checks

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/roach88/skin/internal/registry"
	"github.com/roach88/skin/internal/repr"
	"github.com/roach88/skin/internal/testable"
)

// Builtins returns a registry holding the functions available to checks.
func Builtins() *registry.Registry {
	r := registry.New()
	r.MustRegister("len", length)
	r.MustRegister("keys", keys)
	r.MustRegister("upper", strings.ToUpper)
	r.MustRegister("lower", strings.ToLower)
	r.MustRegister("trim", strings.TrimSpace)
	r.MustRegister("type", typeOf)
	r.MustRegister("int", parseInt)
	r.MustRegister("duration", seconds)
	r.MustRegister("split", split)
	r.MustRegister("join", join)
	r.MustRegister("contains", contains)
	return r
}

// length counts runes of strings and elements of lists and mappings.
func length(v any) (int, error) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), nil
	}
	return 0, &testable.TypeError{Message: "object of type " + repr.String(typeOf(v)) + " has no len()"}
}

// keys returns the sorted keys of a mapping.
func keys(m map[string]any) []any {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]any, len(names))
	for i, k := range names {
		out[i] = k
	}
	return out
}

// typeOf names the document type of v.
func typeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case []any:
		return "list"
	case map[string]any, map[any]any:
		return "map"
	}
	return repr.TypeName(v)
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// seconds parses a Go duration string into seconds.
func seconds(s string) (float64, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return d.Seconds(), nil
}

func split(s, sep string) []any {
	parts := strings.Split(s, sep)
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

func join(items []any, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if s, ok := item.(string); ok {
			parts[i] = s
			continue
		}
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, sep)
}

// contains reports substring, list membership or mapping key presence.
func contains(container, item any) (bool, error) {
	switch c := container.(type) {
	case string:
		s, ok := item.(string)
		if !ok {
			return false, &testable.TypeError{Message: "'in <string>' requires string as left operand, not " + typeOf(item)}
		}
		return strings.Contains(c, s), nil
	case []any:
		want := normalize(item)
		for _, e := range c {
			if testable.Equal(normalize(e), want) {
				return true, nil
			}
		}
		return false, nil
	case map[string]any:
		k, ok := item.(string)
		if !ok {
			return false, nil
		}
		_, found := c[k]
		return found, nil
	}
	return false, &testable.TypeError{Message: "argument of type " + repr.String(typeOf(container)) + " is not iterable"}
}
