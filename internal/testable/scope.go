package testable

// Scope receives the outcome of exactly one assertion verb.
//
// Exit is called once, from a deferred function, with nil on success, an
// *AssertionError on failure or any other error when the assertion errored.
// A Scope that returns normally suppresses the condition.
type Scope interface {
	Exit(cond error)
}

// ScopeFactory opens a Scope for an assertion on t.
type ScopeFactory func(t *Testable) Scope

// ScopeFunc adapts a function to Scope.
type ScopeFunc func(cond error)

// Exit calls f(cond).
func (f ScopeFunc) Exit(cond error) { f(cond) }

// Passthrough is the factory used when none is injected: failures and errors
// re-panic to the caller of the assertion verb.
func Passthrough(*Testable) Scope {
	return ScopeFunc(func(cond error) {
		if cond != nil {
			panic(cond)
		}
	})
}
