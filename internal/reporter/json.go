package reporter

import (
	"io"
	"runtime"
	"sync"

	"github.com/roach88/skin/internal/run"
	"github.com/roach88/skin/internal/testable"
)

// JSON writes one canonical JSON object per event, newline separated.
//
// Write errors do not interrupt the run: the first one is kept and returned
// by Err.
type JSON struct {
	mu    sync.Mutex
	w     io.Writer
	clock run.Clock
	err   error
}

// JSONOption configures a JSON reporter.
type JSONOption func(*JSON)

// WithJSONClock sets the clock used to compute elapsed_ms.
func WithJSONClock(clock run.Clock) JSONOption {
	return func(j *JSON) { j.clock = clock }
}

// NewJSON creates a JSON reporter writing to w.
func NewJSON(w io.Writer, opts ...JSONOption) *JSON {
	j := &JSON{w: w, clock: run.SystemClock{}}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *JSON) OnNewSubject(name string) {
	j.emit(map[string]any{"event": string(EventSubject), "name": name})
}

func (j *JSON) OnSuccess(message string) {
	j.emit(map[string]any{"event": string(EventSuccess), "message": message})
}

func (j *JSON) OnError(message string) {
	j.emit(map[string]any{"event": string(EventFailure), "message": message})
}

func (j *JSON) OnDiff(diff string) {
	j.emit(map[string]any{"event": string(EventDiff), "diff": diff})
}

func (j *JSON) OnException(kind string, err error, stack []runtime.Frame, t *testable.Testable) {
	frames := make([]any, 0, len(stack))
	for _, f := range stack {
		frames = append(frames, map[string]any{
			"file":     f.File,
			"line":     f.Line,
			"function": f.Function,
		})
	}
	j.emit(map[string]any{
		"event":   string(EventException),
		"kind":    kind,
		"error":   err.Error(),
		"subject": t.String(),
		"stack":   frames,
	})
}

func (j *JSON) OnTestsFinished(result run.Result) {
	event := map[string]any{
		"event":          string(EventFinished),
		"successful":     result.Successful,
		"failed":         result.Failed,
		"errors":         result.Errors,
		"total":          result.Len(),
		"elapsed_ms":     result.Elapsed(j.clock.Now()).Milliseconds(),
		"was_successful": result.WasSuccessful(),
	}
	if result.RunID != "" {
		event["run_id"] = result.RunID
	}
	j.emit(event)
}

// Err returns the first encoding or write error.
func (j *JSON) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *JSON) emit(event map[string]any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return
	}

	line, err := MarshalCanonical(event)
	if err != nil {
		j.err = err
		return
	}
	line = append(line, '\n')
	if _, err := j.w.Write(line); err != nil {
		j.err = err
	}
}
