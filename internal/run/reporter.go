package run

import (
	"runtime"

	"github.com/roach88/skin/internal/testable"
)

// Reporter receives outcome and summary events from a Run.
//
// Events arrive strictly in program order from the goroutine driving the
// run. Implementations that are shared between runs must serialise their
// output themselves.
type Reporter interface {
	// OnNewSubject announces a new named group of assertions. It is called at
	// most once per distinct subject name per run.
	OnNewSubject(name string)

	// OnSuccess reports a passing assertion.
	OnSuccess(message string)

	// OnError reports an assertion failure (not an unexpected error).
	OnError(message string)

	// OnException reports an unexpected error raised during an assertion.
	// kind is the unqualified type name of err, stack the frames active when
	// the assertion ended.
	OnException(kind string, err error, stack []runtime.Frame, t *testable.Testable)

	// OnTestsFinished reports the final result.
	OnTestsFinished(result Result)
}

// DiffReporter is implemented by reporters that render the diff attached to
// an equality failure. OnDiff follows the OnError call it belongs to.
type DiffReporter interface {
	OnDiff(diff string)
}

// Nop is a Reporter that discards every event.
type Nop struct{}

func (Nop) OnNewSubject(string)                                            {}
func (Nop) OnSuccess(string)                                               {}
func (Nop) OnError(string)                                                 {}
func (Nop) OnException(string, error, []runtime.Frame, *testable.Testable) {}
func (Nop) OnTestsFinished(Result)                                         {}
