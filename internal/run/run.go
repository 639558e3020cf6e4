// Package run drives assertions against a Reporter and aggregates their
// outcomes into a Result.
//
// A Run is the assertion outcome scope for every testable it creates:
//
//	r := run.New(reporter.NewTerminal(os.Stdout))
//	r.Subject("config", cfg).MustItem("port").ShouldEqual(8080)
//	result := r.Finish()
//
// Runs are single-threaded. Independent runs can execute concurrently and be
// folded together with Merge.
package run

import (
	"errors"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/roach88/skin/internal/repr"
	"github.com/roach88/skin/internal/testable"
)

// maxStackDepth bounds the frames captured for an errored assertion.
const maxStackDepth = 64

// Run is a single test run reporting to one Reporter.
type Run struct {
	reporter Reporter
	logger   *slog.Logger
	clock    Clock
	result   Result
	seen     map[string]bool
}

// Option configures a Run.
type Option func(*config)

type config struct {
	logger *slog.Logger
	clock  Clock
	ids    IDGenerator
}

// WithLogger sets the logger receiving debug records for every outcome.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithClock sets the clock stamping the run start.
func WithClock(clock Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithIDGenerator sets the generator of the run ID.
func WithIDGenerator(ids IDGenerator) Option {
	return func(c *config) { c.ids = ids }
}

// New starts a run reporting to reporter. A nil reporter discards events.
func New(reporter Reporter, opts ...Option) *Run {
	cfg := config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  SystemClock{},
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if reporter == nil {
		reporter = Nop{}
	}

	r := &Run{
		reporter: reporter,
		logger:   cfg.logger,
		clock:    cfg.clock,
		result:   NewResult(cfg.clock.Now(), cfg.ids.Generate()),
		seen:     make(map[string]bool),
	}
	r.logger.Debug("run started", "run_id", r.result.RunID)
	return r
}

// Scope opens the outcome scope of one assertion on t. It is the
// testable.ScopeFactory of every testable bound to the run.
func (r *Run) Scope(t *testable.Testable) testable.Scope {
	return testable.ScopeFunc(func(cond error) { r.exit(t, cond) })
}

// Testable wraps v in a testable reporting to the run.
func (r *Run) Testable(v any, opts ...testable.Option) *testable.Testable {
	return testable.New(v, append(opts, testable.WithScope(r.Scope))...)
}

// Subject announces name to the reporter the first time it is seen and wraps
// v in a testable labelled name. Later options override the label.
func (r *Run) Subject(name string, v any, opts ...testable.Option) *testable.Testable {
	r.Announce(name)
	opts = append([]testable.Option{testable.Named(name)}, opts...)
	return r.Testable(v, opts...)
}

// Announce reports a new subject group unless name was already announced.
func (r *Run) Announce(name string) {
	if r.seen[name] {
		return
	}
	r.seen[name] = true
	r.reporter.OnNewSubject(name)
}

// Result returns a snapshot of the outcomes so far.
func (r *Run) Result() Result {
	return r.result
}

// Merge folds the outcomes of a sub-run into this run.
func (r *Run) Merge(other Result) {
	r.result = r.result.Combine(other)
}

// Finish reports the summary and returns the final result.
func (r *Run) Finish() Result {
	r.logger.Debug("run finished",
		"run_id", r.result.RunID,
		"result", r.result.String(),
		"elapsed", r.result.Elapsed(r.clock.Now()),
	)
	r.reporter.OnTestsFinished(r.result)
	return r.result
}

// exit dispatches one assertion outcome. The condition never propagates.
func (r *Run) exit(t *testable.Testable, cond error) {
	var failure *testable.AssertionError
	switch {
	case cond == nil:
		r.result.Successful++
		msg := successMessage(t)
		r.logger.Debug("assertion passed", "message", msg)
		r.reporter.OnSuccess(msg)

	case errors.As(cond, &failure):
		r.result.Failed++
		r.logger.Debug("assertion failed", "message", failure.Message)
		r.reporter.OnError(failure.Message)
		if dr, ok := r.reporter.(DiffReporter); ok && failure.Diff != "" {
			dr.OnDiff(failure.Diff)
		}

	default:
		r.result.Errors++
		kind := repr.TypeName(cond)
		r.logger.Debug("assertion errored", "subject", t.Label(), "kind", kind, "error", cond)
		r.reporter.OnException(kind, cond, callers(), t)
	}
}

func successMessage(t *testable.Testable) string {
	msgs := t.Messages()
	if len(msgs) == 0 {
		return t.Label()
	}
	return t.Label() + " " + msgs[len(msgs)-1]
}

// callers returns the caller's stack, outermost frame last, without frames of
// the runtime, reflection and assertion plumbing.
func callers() []runtime.Frame {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []runtime.Frame
	for {
		f, more := frames.Next()
		if f.Function != "" && !hidden(f.Function) {
			out = append(out, f)
		}
		if !more {
			break
		}
	}
	return out
}

var hiddenPrefixes = []string{
	"runtime.",
	"reflect.",
	"github.com/roach88/skin/internal/run.",
	"github.com/roach88/skin/internal/testable.",
}

func hidden(function string) bool {
	for _, p := range hiddenPrefixes {
		if strings.HasPrefix(function, p) {
			return true
		}
	}
	return false
}
