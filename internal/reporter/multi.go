package reporter

import (
	"runtime"
	"sync"

	"github.com/roach88/skin/internal/run"
	"github.com/roach88/skin/internal/testable"
)

// Multi forwards every event to each of its reporters in order.
//
// Thread-safety: Multi serialises callbacks, so reporters behind it never see
// interleaved events even when runs share it across goroutines.
type Multi struct {
	mu        sync.Mutex
	reporters []run.Reporter
}

// NewMulti creates a fan-out over reporters. Nil reporters are skipped.
func NewMulti(reporters ...run.Reporter) *Multi {
	m := &Multi{}
	for _, r := range reporters {
		if r != nil {
			m.reporters = append(m.reporters, r)
		}
	}
	return m
}

func (m *Multi) OnNewSubject(name string) {
	m.each(func(r run.Reporter) { r.OnNewSubject(name) })
}

func (m *Multi) OnSuccess(message string) {
	m.each(func(r run.Reporter) { r.OnSuccess(message) })
}

func (m *Multi) OnError(message string) {
	m.each(func(r run.Reporter) { r.OnError(message) })
}

func (m *Multi) OnDiff(diff string) {
	m.each(func(r run.Reporter) {
		if dr, ok := r.(run.DiffReporter); ok {
			dr.OnDiff(diff)
		}
	})
}

func (m *Multi) OnException(kind string, err error, stack []runtime.Frame, t *testable.Testable) {
	m.each(func(r run.Reporter) { r.OnException(kind, err, stack, t) })
}

func (m *Multi) OnTestsFinished(result run.Result) {
	m.each(func(r run.Reporter) { r.OnTestsFinished(result) })
}

func (m *Multi) each(fn func(run.Reporter)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reporters {
		fn(r)
	}
}
