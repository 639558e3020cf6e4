package testable

import (
	"math"
	"reflect"
	"strings"

	"github.com/roach88/skin/internal/repr"
)

// Testable is a deferred-evaluation wrapper around a value or callable.
//
// A Testable is immutable after construction apart from the success messages
// appended by its assertion verbs. Item, Attr and Call return new nodes.
type Testable struct {
	subject  subject
	name     string
	messages []string
	scope    ScopeFactory
}

// Option configures a Testable at construction.
type Option func(*options)

type options struct {
	name    string
	args    []any
	kwargs  []Keyword
	hasArgs bool
	scope   ScopeFactory
}

// Named sets the display name used in messages.
func Named(name string) Option {
	return func(o *options) { o.name = name }
}

// WithArgs sets the pending arguments applied when the subject is called.
// Keyword values become keyword arguments.
func WithArgs(args ...any) Option {
	return func(o *options) {
		o.args, o.kwargs = splitArgs(args)
		o.hasArgs = true
	}
}

// WithScope sets the factory scoping each assertion's outcome.
func WithScope(factory ScopeFactory) Option {
	return func(o *options) { o.scope = factory }
}

// New wraps subject. Non-nil func values are called lazily on every Value read,
// anything else is returned as is.
func New(subject any, opts ...Option) *Testable {
	if isFunc(subject) {
		return build(deferredCall{fn: subject}, opts)
	}
	return build(immediate{value: subject}, opts)
}

// Value wraps v as an immediate value, even when v is a func.
func Value(v any, opts ...Option) *Testable {
	return build(immediate{value: v}, opts)
}

// Func wraps fn as a deferred call. Resolving fails with a *TypeError when fn
// is not a func.
func Func(fn any, opts ...Option) *Testable {
	return build(deferredCall{fn: fn}, opts)
}

func build(s subject, opts []Option) *Testable {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasArgs {
		s = deferredCall{fn: s.callee(), args: o.args, kwargs: o.kwargs}
	}
	return &Testable{subject: s, name: o.name, scope: o.scope}
}

// Value resolves the subject. Errors returned or panics raised by a callee
// reach the caller unchanged.
func (t *Testable) Value() (any, error) {
	return t.subject.resolve()
}

// Label is the display name, falling back to the callee's declared name and
// then to the debug representation of an immediate value.
func (t *Testable) Label() string {
	if t.name != "" {
		return t.name
	}
	return t.subject.label()
}

// Messages returns the success messages accumulated so far.
func (t *Testable) Messages() []string {
	return append([]string(nil), t.messages...)
}

// String renders the label, or one "label message" line per success message.
func (t *Testable) String() string {
	label := t.Label()
	if len(t.messages) == 0 {
		return label
	}
	lines := make([]string, len(t.messages))
	for i, msg := range t.messages {
		lines[i] = label + " " + msg
	}
	return strings.Join(lines, "\n")
}

// Item wraps value[key] in a new Testable named "label[repr(key)]".
func (t *Testable) Item(key any) (*Testable, error) {
	v, err := t.Value()
	if err != nil {
		return nil, err
	}
	elem, err := index(v, key)
	if err != nil {
		return nil, err
	}
	return t.derive(elem, t.Label()+"["+repr.Repr(key)+"]"), nil
}

// MustItem is Item panicking on error.
func (t *Testable) MustItem(key any) *Testable {
	child, err := t.Item(key)
	if err != nil {
		panic(err)
	}
	return child
}

// Attr wraps a method value or exported field of the value in a new Testable
// named "label.name".
func (t *Testable) Attr(name string) (*Testable, error) {
	v, err := t.Value()
	if err != nil {
		return nil, err
	}
	attr, err := attribute(v, name)
	if err != nil {
		return nil, err
	}
	return t.derive(attr, t.Label()+"."+name), nil
}

// MustAttr is Attr panicking on error.
func (t *Testable) MustAttr(name string) *Testable {
	child, err := t.Attr(name)
	if err != nil {
		panic(err)
	}
	return child
}

// Call returns a Testable calling the same callee with args. Nothing is
// invoked until the result is resolved.
func (t *Testable) Call(args ...any) *Testable {
	pos, kw := splitArgs(args)
	return &Testable{
		subject: deferredCall{fn: t.subject.callee(), args: pos, kwargs: kw},
		name:    t.Label() + "(" + formatArgs(pos, kw) + ")",
		scope:   t.scope,
	}
}

func (t *Testable) derive(v any, name string) *Testable {
	child := New(v, Named(name))
	child.scope = t.scope
	return child
}

func (t *Testable) scopeFactory() ScopeFactory {
	if t.scope == nil {
		return Passthrough
	}
	return t.scope
}

func splitArgs(args []any) ([]any, []Keyword) {
	var pos []any
	var kw []Keyword
	for _, a := range args {
		if k, ok := a.(Keyword); ok {
			kw = append(kw, k)
			continue
		}
		pos = append(pos, a)
	}
	return pos, kw
}

func formatArgs(pos []any, kw []Keyword) string {
	parts := make([]string, 0, len(pos)+len(kw))
	for _, a := range pos {
		parts = append(parts, repr.Repr(a))
	}
	for _, k := range kw {
		parts = append(parts, k.Name+"="+repr.Repr(k.Value))
	}
	return strings.Join(parts, ", ")
}

func index(v any, key any) (any, error) {
	rv, err := deref(v, "subscriptable")
	if err != nil {
		return nil, err
	}

	switch rv.Kind() {
	case reflect.Map:
		k, ok := convert(key, rv.Type().Key())
		if !ok {
			return nil, &KeyError{Key: key}
		}
		elem := rv.MapIndex(k)
		if !elem.IsValid() {
			return nil, &KeyError{Key: key}
		}
		return elem.Interface(), nil

	case reflect.Slice, reflect.Array, reflect.String:
		i, ok := toIndex(key)
		if !ok {
			return nil, &TypeError{Message: "indices must be integers, not " + repr.String(repr.TypeName(key))}
		}
		if rv.Kind() == reflect.String {
			runes := []rune(rv.String())
			if i, ok = bound(i, len(runes)); !ok {
				return nil, &IndexError{Index: key, Len: len(runes)}
			}
			return string(runes[i]), nil
		}
		if i, ok = bound(i, rv.Len()); !ok {
			return nil, &IndexError{Index: key, Len: rv.Len()}
		}
		return rv.Index(i).Interface(), nil
	}

	return nil, &TypeError{Message: repr.String(repr.TypeName(v)) + " object is not subscriptable"}
}

func attribute(v any, name string) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, &AttributeError{Type: "nil", Name: name}
	}

	if m := rv.MethodByName(name); m.IsValid() {
		return m.Interface(), nil
	}
	if rv.Kind() != reflect.Pointer {
		// Pointer-receiver methods are reachable through an addressable copy.
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		if m := ptr.MethodByName(name); m.IsValid() {
			return m.Interface(), nil
		}
	}

	sv, err := deref(v, "an attribute holder")
	if err == nil && sv.Kind() == reflect.Struct {
		if f, ok := sv.Type().FieldByName(name); ok && f.IsExported() {
			fv, err := sv.FieldByIndexErr(f.Index)
			if err == nil {
				return fv.Interface(), nil
			}
		}
	}
	return nil, &AttributeError{Type: repr.TypeName(v), Name: name}
}

func deref(v any, what string) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}, &TypeError{Message: "nil " + rv.Type().String() + " is not " + what}
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return reflect.Value{}, &TypeError{Message: "nil is not " + what}
	}
	return rv, nil
}

func toIndex(key any) (int, bool) {
	rv := reflect.ValueOf(key)
	switch {
	case !rv.IsValid():
		return 0, false
	case rv.CanInt():
		return int(rv.Int()), true
	case rv.CanUint():
		// Out-of-range keys saturate so bound rejects them.
		if u := rv.Uint(); u <= math.MaxInt {
			return int(u), true
		}
		return math.MaxInt, true
	}
	return 0, false
}

// bound resolves negative indexes from the end and checks the range.
func bound(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
