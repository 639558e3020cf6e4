package testable

import (
	"github.com/roach88/skin/internal/repr"
)

// ShouldEqual asserts that the resolved value equals expected.
// It always returns the receiver so several assertions can chain.
func (t *Testable) ShouldEqual(expected any) *Testable {
	t.assert(func() (string, error) {
		got, err := t.Value()
		if err != nil {
			return "", err
		}
		if !Equal(got, expected) {
			return "", &AssertionError{
				Message: t.String() + " doesn't equal " + repr.Repr(expected),
				Diff:    Diff(expected, got),
			}
		}
		return "equals " + repr.Repr(expected), nil
	})
	return t
}

// ShouldRaise asserts that resolving the value fails with an error of kind.
// Returned errors and panics both count as raised.
func (t *Testable) ShouldRaise(kind ErrorKind) *Testable {
	t.assert(func() (string, error) {
		err := t.raised()
		switch {
		case err == nil:
			return "", &AssertionError{Message: t.String() + " doesn't raise " + kind.Name()}
		case !kind.Match(err):
			return "", &AssertionError{
				Message: t.String() + " doesn't raise " + kind.Name() + ", it raises " + repr.Error(err),
			}
		}
		return "raises " + kind.Name(), nil
	})
	return t
}

func (t *Testable) raised() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	_, err = t.Value()
	return err
}

// assert runs body inside a fresh scope. The scope sees the outcome exactly
// once; on success the message is recorded before it is notified.
func (t *Testable) assert(body func() (string, error)) {
	scope := t.scopeFactory()(t)

	var cond error
	defer func() {
		if r := recover(); r != nil {
			cond = recovered(r)
		}
		scope.Exit(cond)
	}()

	msg, err := body()
	if err != nil {
		cond = err
		return
	}
	t.messages = append(t.messages, msg)
}

func recovered(r any) error {
	if ae, ok := r.(*AssertionError); ok {
		return ae
	}
	return &PanicError{Value: r}
}
