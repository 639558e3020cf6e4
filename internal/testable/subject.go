package testable

import (
	"fmt"
	"math"
	"reflect"

	"github.com/roach88/skin/internal/repr"
)

// Tuple holds the results of a call returning several values.
type Tuple = repr.Tuple

// Kwargs is the trailing argument receiving keyword arguments.
type Kwargs map[string]any

// Keyword is a named argument for Call and WithArgs.
type Keyword struct {
	Name  string
	Value any
}

// Kw builds a keyword argument.
func Kw(name string, value any) Keyword {
	return Keyword{Name: name, Value: value}
}

// subject is either an immediate value or a deferred call.
type subject interface {
	resolve() (any, error)
	label() string
	callee() any
}

type immediate struct {
	value any
}

func (s immediate) resolve() (any, error) { return s.value, nil }
func (s immediate) label() string         { return repr.Repr(s.value) }
func (s immediate) callee() any           { return s.value }

type deferredCall struct {
	fn     any
	args   []any
	kwargs []Keyword
}

func (s deferredCall) resolve() (any, error) {
	return invoke(s.fn, s.args, s.kwargs)
}

func (s deferredCall) label() string {
	if name := repr.FuncName(s.fn); name != "" {
		return name
	}
	return repr.Repr(s.fn)
}

func (s deferredCall) callee() any { return s.fn }

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func isFunc(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// invoke calls fn with the given arguments, converting them to the parameter
// types. Panics raised by fn are not recovered.
func invoke(fn any, args []any, kwargs []Keyword) (any, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, &TypeError{Message: fmt.Sprintf("%s object is not callable", repr.String(repr.TypeName(fn)))}
	}

	in := make([]any, 0, len(args)+1)
	in = append(in, args...)
	if len(kwargs) > 0 {
		kw := make(Kwargs, len(kwargs))
		for _, k := range kwargs {
			kw[k.Name] = k.Value
		}
		in = append(in, kw)
	}

	values, err := callArgs(repr.FuncName(fn), rv.Type(), in)
	if err != nil {
		return nil, err
	}
	return results(rv.Call(values))
}

func callArgs(name string, ft reflect.Type, in []any) ([]reflect.Value, error) {
	n := ft.NumIn()
	variadic := ft.IsVariadic()
	if (!variadic && len(in) != n) || (variadic && len(in) < n-1) {
		want := fmt.Sprintf("%d", n)
		if variadic {
			want = fmt.Sprintf("at least %d", n-1)
		}
		return nil, &ArgumentError{
			Callee:  name,
			Message: fmt.Sprintf("takes %s arguments but %d were given", want, len(in)),
		}
	}

	values := make([]reflect.Value, len(in))
	for i, arg := range in {
		var pt reflect.Type
		if variadic && i >= n-1 {
			pt = ft.In(n - 1).Elem()
		} else {
			pt = ft.In(i)
		}
		v, ok := convert(arg, pt)
		if !ok {
			return nil, &ArgumentError{
				Callee:  name,
				Message: fmt.Sprintf("argument %d: cannot use %s as %s", i+1, repr.Repr(arg), pt),
			}
		}
		values[i] = v
	}
	return values, nil
}

// convert adapts arg to t: assignable values pass through, numbers convert
// between kinds when no precision is lost, nil becomes the zero value of
// nilable types.
func convert(arg any, t reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v, true
	}

	switch {
	case isInt(v.Kind()) && (isInt(t.Kind()) || isFloat(t.Kind())):
		return v.Convert(t), true
	case isFloat(v.Kind()) && isFloat(t.Kind()):
		return v.Convert(t), true
	case isFloat(v.Kind()) && isInt(t.Kind()):
		f := v.Float()
		if f != math.Trunc(f) {
			return reflect.Value{}, false
		}
		return v.Convert(t), true
	case v.Kind() == t.Kind() && v.Type().ConvertibleTo(t):
		return v.Convert(t), true
	}
	return reflect.Value{}, false
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func results(out []reflect.Value) (any, error) {
	if len(out) > 0 && out[len(out)-1].Type() == errorType {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	}

	tuple := make(Tuple, len(out))
	for i, v := range out {
		tuple[i] = v.Interface()
	}
	return tuple, nil
}
