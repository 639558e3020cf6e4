// Package testable provides the deferred-evaluation proxy at the heart of skin.
//
// A Testable wraps a subject (a plain value or a callable), lets the author chain
// item, attribute and call access through it, and terminates the chain with a
// fluent assertion:
//
//	cfg := testable.New(loadConfig, testable.WithScope(r.Scope))
//	cfg.Call("prod.yaml").MustAttr("Port").ShouldEqual(8443)
//	cfg.Call("missing.yaml").ShouldRaise(testable.KindOf[*fs.PathError]())
//
// # Subjects
//
// The subject is a sealed variant: an immediate value, or a deferred call of a
// callee with pending arguments. New picks the deferred variant for non-nil func
// values; Value and Func force either variant. Resolution is never cached, every
// Value read invokes the callee again.
//
// Calls follow Go conventions: a trailing error result is the raised error, a
// single remaining result is the value, several results form a Tuple. Keyword
// arguments built with Kw are passed as a trailing Kwargs argument.
//
// # Outcomes
//
// ShouldEqual and ShouldRaise run inside a Scope obtained from the injected
// ScopeFactory. The scope is told exactly once how the assertion ended: nil on
// success, an *AssertionError on failure, or any other error (a recovered panic
// becomes a *PanicError). Without a factory, Passthrough re-panics failures.
//
// Item, Attr and Value used outside an assertion return their errors to the
// caller; only the assertion verbs shield the chain.
package testable
