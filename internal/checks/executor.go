package checks

import (
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/skin/internal/registry"
	"github.com/roach88/skin/internal/repr"
	"github.com/roach88/skin/internal/run"
	"github.com/roach88/skin/internal/testable"
)

// Executor evaluates check files as assertions of a run.
type Executor struct {
	funcs  *registry.Registry
	logger *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the logger receiving debug records per check.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// NewExecutor creates an executor resolving calls against funcs.
// A nil registry falls back to Builtins.
func NewExecutor(funcs *registry.Registry, opts ...ExecutorOption) *Executor {
	if funcs == nil {
		funcs = Builtins()
	}
	e := &Executor{
		funcs:  funcs,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates every check of f against r.
//
// It returns an error only when the document under test cannot be loaded;
// failing and erroring checks are recorded in r.
func (e *Executor) Run(r *run.Run, f *File) error {
	doc, err := e.document(f)
	if err != nil {
		return err
	}

	r.Announce(f.Name)
	root := label(f)
	for i, c := range f.Checks {
		tb := r.Testable(e.subject(doc, c), testable.Named(c.describe(root)))
		e.logger.Debug("running check", "file", f.Path, "index", i, "check", tb.Label())

		if c.Equals.Set {
			tb.ShouldEqual(normalize(c.Equals.Value))
		} else {
			tb.ShouldRaise(kindFor(c.Raises))
		}
	}
	return nil
}

// RunFile loads the check file at path and evaluates it.
func (e *Executor) RunFile(r *run.Run, path string) error {
	f, err := LoadFile(path)
	if err != nil {
		return err
	}
	return e.Run(r, f)
}

func (e *Executor) document(f *File) (any, error) {
	if f.Subject == "" {
		return f.Value, nil
	}
	path := f.Subject
	if !filepath.IsAbs(path) && f.Path != "" {
		path = filepath.Join(filepath.Dir(f.Path), path)
	}
	return LoadDocument(path)
}

// subject resolves the check lazily so that lookup errors surface inside
// the assertion.
func (e *Executor) subject(doc any, c Check) func() (any, error) {
	return func() (any, error) {
		tb := testable.Value(doc)
		for _, step := range c.Path {
			next, err := tb.Item(normalize(step))
			if err != nil {
				return nil, err
			}
			tb = next
		}
		if c.Call == "" {
			return tb.Value()
		}

		var args []any
		if c.Path != nil {
			v, err := tb.Value()
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		args = append(args, c.Args...)
		args = append(args, keywords(c.Kwargs)...)

		call, err := e.funcs.Testable(c.Call, args)
		if err != nil {
			return nil, err
		}
		v, err := call.Value()
		if err != nil {
			return nil, err
		}
		return normalize(v), nil
	}
}

// describe names the check: the root label followed by item steps, wrapped
// in the call when there is one.
func (c Check) describe(root string) string {
	var b strings.Builder
	b.WriteString(root)
	for _, step := range c.Path {
		b.WriteString("[" + repr.Repr(normalize(step)) + "]")
	}
	if c.Call == "" {
		return b.String()
	}

	var args []string
	if c.Path != nil {
		args = append(args, b.String())
	}
	for _, a := range c.Args {
		args = append(args, repr.Repr(normalize(a)))
	}
	for _, k := range keywords(c.Kwargs) {
		kw := k.(testable.Keyword)
		args = append(args, kw.Name+"="+repr.Repr(normalize(kw.Value)))
	}
	return c.Call + "(" + strings.Join(args, ", ") + ")"
}

// keywords turns kwargs into testable keyword arguments in key order.
func keywords(kwargs map[string]any) []any {
	names := make([]string, 0, len(kwargs))
	for k := range kwargs {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]any, len(names))
	for i, k := range names {
		out[i] = testable.Kw(k, normalize(kwargs[k]))
	}
	return out
}

func label(f *File) string {
	switch {
	case f.Label != "":
		return f.Label
	case f.Subject != "":
		base := filepath.Base(f.Subject)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "value"
}

// kindFor maps a raises name to an error kind. "panic" matches any panic.
func kindFor(name string) testable.ErrorKind {
	if strings.EqualFold(name, "panic") {
		return testable.Panic
	}
	return testable.KindNamed(name)
}
