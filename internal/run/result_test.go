package run_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/skin/internal/run"
)

func TestResult_Combine(t *testing.T) {
	a := run.Result{Successful: 2, Failed: 1}
	b := run.Result{Successful: 3, Errors: 1}

	got := a.Combine(b)

	assert.Equal(t, 5, got.Successful)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 1, got.Errors)
	assert.Equal(t, 7, got.Len())
	assert.False(t, got.WasSuccessful())
	assert.True(t, got.HasFailed())

	// Operands are values and stay untouched.
	assert.Equal(t, 2, a.Successful)
	assert.Equal(t, 3, b.Successful)
}

func TestResult_Combine_KeepsEarliestStart(t *testing.T) {
	early := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	late := early.Add(time.Minute)

	got := run.NewResult(late, "outer").Combine(run.NewResult(early, "inner"))
	assert.Equal(t, early, got.StartTime)
	assert.Equal(t, "outer", got.RunID)

	got = run.Result{}.Combine(run.NewResult(late, "inner"))
	assert.Equal(t, late, got.StartTime)
	assert.Equal(t, "inner", got.RunID)

	got = run.NewResult(early, "outer").Combine(run.Result{})
	assert.Equal(t, early, got.StartTime)
}

func TestResult_WasSuccessful(t *testing.T) {
	tests := []struct {
		name   string
		result run.Result
		want   bool
	}{
		{"empty", run.Result{}, true},
		{"only successes", run.Result{Successful: 4}, true},
		{"failure", run.Result{Successful: 4, Failed: 1}, false},
		{"error", run.Result{Errors: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.WasSuccessful())
			assert.Equal(t, !tt.want, tt.result.HasFailed())
		})
	}
}

func TestResult_String(t *testing.T) {
	r := run.Result{Successful: 5, Failed: 1, Errors: 2}
	assert.Equal(t, "successful=5, failed=1, errors=2", r.String())
}

func TestResult_Elapsed(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	r := run.NewResult(start, "")

	assert.Equal(t, 1500*time.Millisecond, r.Elapsed(start.Add(1500*time.Millisecond)))
	assert.Zero(t, run.Result{}.Elapsed(start))
}
