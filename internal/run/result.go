package run

import (
	"fmt"
	"time"
)

// Result aggregates assertion outcomes for a run.
//
// Result is a value type: sub-runs each keep their own Result and fold them
// together with Combine at join points. Errors are not failures, but both
// break WasSuccessful.
type Result struct {
	Successful int
	Failed     int
	Errors     int

	// StartTime carries the monotonic reading of the run start.
	StartTime time.Time

	// RunID identifies the run in reports. Empty for hand-built results.
	RunID string
}

// NewResult creates an empty result started at start.
func NewResult(start time.Time, runID string) Result {
	return Result{StartTime: start, RunID: runID}
}

// Len is the number of assertions recorded.
func (r Result) Len() int {
	return r.Successful + r.Failed + r.Errors
}

// WasSuccessful reports whether no assertion failed or errored.
func (r Result) WasSuccessful() bool {
	return r.Failed == 0 && r.Errors == 0
}

// HasFailed is the negation of WasSuccessful.
func (r Result) HasFailed() bool {
	return !r.WasSuccessful()
}

// Combine sums the counters of r and other elementwise.
//
// The earlier non-zero StartTime wins so that a folded result spans every
// sub-run. RunID is kept from r unless r has none.
func (r Result) Combine(other Result) Result {
	out := r
	out.Successful += other.Successful
	out.Failed += other.Failed
	out.Errors += other.Errors

	if out.StartTime.IsZero() || (!other.StartTime.IsZero() && other.StartTime.Before(out.StartTime)) {
		out.StartTime = other.StartTime
	}
	if out.RunID == "" {
		out.RunID = other.RunID
	}
	return out
}

// Elapsed is the time between StartTime and now.
func (r Result) Elapsed(now time.Time) time.Duration {
	if r.StartTime.IsZero() {
		return 0
	}
	return now.Sub(r.StartTime)
}

func (r Result) String() string {
	return fmt.Sprintf("successful=%d, failed=%d, errors=%d", r.Successful, r.Failed, r.Errors)
}
