package testable

import (
	"errors"
	"reflect"

	"github.com/roach88/skin/internal/repr"
)

// ErrorKind identifies a class of errors ShouldRaise expects.
type ErrorKind interface {
	// Name is the kind as rendered in messages.
	Name() string
	// Match reports whether err belongs to the kind.
	Match(err error) bool
}

type typeKind[T error] struct{}

func (typeKind[T]) Name() string {
	return repr.TypeNameOf(reflect.TypeFor[T]())
}

func (typeKind[T]) Match(err error) bool {
	var target T
	return errors.As(err, &target)
}

// KindOf matches errors assignable to T anywhere in the wrap chain.
func KindOf[T error]() ErrorKind {
	return typeKind[T]{}
}

type sentinelKind struct {
	err error
}

func (k sentinelKind) Name() string         { return repr.String(k.err.Error()) }
func (k sentinelKind) Match(err error) bool { return errors.Is(err, k.err) }

// Sentinel matches errors for which errors.Is(err, target) holds.
func Sentinel(target error) ErrorKind {
	return sentinelKind{err: target}
}

type namedKind struct {
	name string
}

func (k namedKind) Name() string { return k.name }

func (k namedKind) Match(err error) bool {
	for _, e := range chain(err) {
		if repr.TypeName(e) == k.name {
			return true
		}
	}
	return false
}

// KindNamed matches errors whose unqualified type name, pointers stripped,
// appears anywhere in the wrap chain.
func KindNamed(name string) ErrorKind {
	return namedKind{name: name}
}

// Panic matches any panic recovered while resolving the subject.
var Panic = KindOf[*PanicError]()

// chain flattens the wrap tree of err, following both Unwrap forms.
func chain(err error) []error {
	var out []error
	queue := []error{err}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e == nil {
			continue
		}
		out = append(out, e)
		switch u := e.(type) {
		case interface{ Unwrap() error }:
			queue = append(queue, u.Unwrap())
		case interface{ Unwrap() []error }:
			queue = append(queue, u.Unwrap()...)
		}
	}
	return out
}
