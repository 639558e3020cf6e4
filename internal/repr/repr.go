// Package repr renders Go values as debug representations for assertion messages.
//
// The rendering is stable across runs so that messages can be compared against
// golden output:
//
//   - strings are single-quoted ('foo'), switching to double quotes when the text
//     contains a single quote and no double quote
//   - maps are rendered with keys sorted by their representation
//   - structs render as TypeName(Field=value, ...)
//   - Tuple values render as (a, b)
//
// Types can take over their own rendering by implementing Representer.
package repr

import (
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/davecgh/go-spew/spew"
)

// Representer is implemented by values that render their own debug representation.
type Representer interface {
	Repr() string
}

// Tuple is an ordered group of values, typically the results of a multi-value call.
type Tuple []any

// Repr renders the tuple as (a, b) with a trailing comma for single elements.
func (t Tuple) Repr() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = Repr(v)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// spewConfig is used for kinds with no dedicated rendering (channels, complex numbers).
var spewConfig = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
}

var (
	representerType = reflect.TypeOf((*Representer)(nil)).Elem()
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
	stringerType    = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// Repr returns the debug representation of v.
func Repr(v any) string {
	if v == nil {
		return "nil"
	}
	p := printer{seen: make(map[visit]bool)}
	return p.value(reflect.ValueOf(v))
}

// String quotes s the way Repr renders strings.
func String(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case !unicode.IsPrint(r):
			switch {
			case r < 0x100:
				fmt.Fprintf(&b, `\x%02x`, r)
			case r < 0x10000:
				fmt.Fprintf(&b, `\u%04x`, r)
			default:
				fmt.Fprintf(&b, `\U%08x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(quote)
	return b.String()
}

// Error renders err as TypeName('message').
func Error(err error) string {
	if err == nil {
		return "nil"
	}
	return TypeName(err) + "(" + String(err.Error()) + ")"
}

// TypeName returns the unqualified name of v's type with pointers stripped.
// Unnamed types fall back to their literal form ([]int, map[string]any).
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return typeName(reflect.TypeOf(v))
}

// TypeNameOf is TypeName for a reflect.Type.
func TypeNameOf(t reflect.Type) string {
	return typeName(t)
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		if i := strings.IndexByte(name, '['); i > 0 {
			return name[:i]
		}
		return name
	}
	return t.String()
}

// FuncName returns the declared name of a function value: the last segment of
// its qualified runtime name, without method-value and generic suffixes.
// It returns "" when fn is not a non-nil func.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return shortFuncName(f.Name())
}

func shortFuncName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.IndexByte(name, '['); i >= 0 {
		end := strings.LastIndexByte(name, ']')
		if end > i {
			name = name[:i] + name[end+1:]
		}
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// visit identifies a pointer, map or slice being rendered. Slices sharing a
// backing array differ by length.
type visit struct {
	ptr uintptr
	typ reflect.Type
	n   int
}

type printer struct {
	seen map[visit]bool
}

// enter marks v as being rendered and reports false if it already is.
func (p printer) enter(v reflect.Value) (visit, bool) {
	key := visit{ptr: v.Pointer(), typ: v.Type()}
	if v.Kind() == reflect.Slice {
		key.n = v.Len()
	}
	if p.seen[key] {
		return key, false
	}
	p.seen[key] = true
	return key, true
}

func (p printer) value(v reflect.Value) string {
	if !v.IsValid() {
		return "nil"
	}

	if v.CanInterface() {
		if v.Type().Implements(representerType) && !isNil(v) {
			return v.Interface().(Representer).Repr()
		}
		if v.Type().Implements(errorType) && !isNil(v) {
			return Error(v.Interface().(error))
		}
	}

	switch v.Kind() {
	case reflect.String:
		return String(v.String())
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(v.Float(), v.Type().Bits())
	case reflect.Interface:
		if v.IsNil() {
			return "nil"
		}
		return p.value(v.Elem())
	case reflect.Pointer:
		if v.IsNil() {
			return "nil"
		}
		key, ok := p.enter(v)
		if !ok {
			return "&..."
		}
		defer delete(p.seen, key)
		return "&" + p.value(v.Elem())
	case reflect.Slice:
		if v.IsNil() {
			return "nil"
		}
		key, ok := p.enter(v)
		if !ok {
			return "[...]"
		}
		defer delete(p.seen, key)
		return p.list(v)
	case reflect.Array:
		return p.list(v)
	case reflect.Map:
		if v.IsNil() {
			return "nil"
		}
		key, ok := p.enter(v)
		if !ok {
			return "{...}"
		}
		defer delete(p.seen, key)
		return p.mapping(v)
	case reflect.Struct:
		return p.structure(v)
	case reflect.Func:
		if v.IsNil() {
			return "nil"
		}
		return "<func " + FuncName(v.Interface()) + ">"
	}

	if v.CanInterface() {
		return spewConfig.Sprint(v.Interface())
	}
	return v.Type().String()
}

func (p printer) list(v reflect.Value) string {
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = p.value(v.Index(i))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (p printer) mapping(v reflect.Value) string {
	type entry struct{ key, val string }
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, entry{key: p.value(iter.Key()), val: p.value(iter.Value())})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.key + ": " + e.val
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (p printer) structure(v reflect.Value) string {
	t := v.Type()
	name := typeName(t)

	var fields []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fields = append(fields, f.Name+"="+p.value(v.Field(i)))
	}

	// Opaque structs such as time.Time render through their String method.
	if len(fields) == 0 && t.NumField() > 0 && v.CanInterface() && t.Implements(stringerType) {
		return name + "(" + String(v.Interface().(fmt.Stringer).String()) + ")"
	}
	return name + "(" + strings.Join(fields, ", ") + ")"
}

func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
