// Package registry maps names to callables so that declarative checks can
// refer to Go functions by name.
package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/roach88/skin/internal/testable"
)

// UnknownFuncError is returned when a name has no registered function.
type UnknownFuncError struct {
	Name string
}

func (e *UnknownFuncError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// Registry is a set of named functions.
//
// Thread-safety: Registry is safe for concurrent use; registration commonly
// happens from init functions.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]any
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{funcs: make(map[string]any)}
}

// Register adds fn under name. fn must be a non-nil func and name unused.
func (r *Registry) Register(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("register: empty name")
	}
	if v := reflect.ValueOf(fn); v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("register %q: %T is not a function", name, fn)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("register %q: already registered", name)
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister is Register panicking on error.
func (r *Registry) MustRegister(name string, fn any) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Testable returns a deferred call of the function registered under name,
// labelled "name(args...)". Keyword arguments built with testable.Kw are
// passed as a trailing testable.Kwargs.
func (r *Registry) Testable(name string, args []any, opts ...testable.Option) (*testable.Testable, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, &UnknownFuncError{Name: name}
	}
	opts = append([]testable.Option{testable.Named(name)}, opts...)
	return testable.Func(fn, opts...).Call(args...), nil
}

// Call invokes the function registered under name with the argument and
// return conventions of testable values.
func (r *Registry) Call(name string, args ...any) (any, error) {
	t, err := r.Testable(name, args)
	if err != nil {
		return nil, err
	}
	return t.Value()
}
