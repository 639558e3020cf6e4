package reporter

import (
	"runtime"
	"sync"

	"github.com/roach88/skin/internal/run"
	"github.com/roach88/skin/internal/testable"
)

// EventType names a reporter callback.
type EventType string

const (
	EventSubject   EventType = "subject"
	EventSuccess   EventType = "success"
	EventFailure   EventType = "failure"
	EventDiff      EventType = "diff"
	EventException EventType = "exception"
	EventFinished  EventType = "finished"
)

// Event is one recorded reporter callback.
type Event struct {
	Type EventType

	// Message is the subject name, the outcome message, the diff, or the
	// rendering of the testable that raised.
	Message string

	// Exception details.
	Kind  string
	Err   error
	Stack []runtime.Frame

	// Result is set on EventFinished.
	Result run.Result
}

// Recorder keeps every event in memory in arrival order.
//
// Thread-safety: Recorder is safe for concurrent use via internal mutex.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnNewSubject(name string) {
	r.add(Event{Type: EventSubject, Message: name})
}

func (r *Recorder) OnSuccess(message string) {
	r.add(Event{Type: EventSuccess, Message: message})
}

func (r *Recorder) OnError(message string) {
	r.add(Event{Type: EventFailure, Message: message})
}

func (r *Recorder) OnDiff(diff string) {
	r.add(Event{Type: EventDiff, Message: diff})
}

func (r *Recorder) OnException(kind string, err error, stack []runtime.Frame, t *testable.Testable) {
	r.add(Event{Type: EventException, Message: t.String(), Kind: kind, Err: err, Stack: stack})
}

func (r *Recorder) OnTestsFinished(result run.Result) {
	r.add(Event{Type: EventFinished, Result: result})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Messages returns the messages of the events of type typ, in order.
func (r *Recorder) Messages(typ EventType) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e.Message)
		}
	}
	return out
}

// Reset drops every recorded event.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}
