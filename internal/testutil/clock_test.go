package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepClock_FirstNowIsStart(t *testing.T) {
	clock := NewStepClock(Epoch, time.Second)
	assert.Equal(t, Epoch, clock.Now())
}

func TestStepClock_NowAdvances(t *testing.T) {
	clock := NewStepClock(Epoch, 250*time.Millisecond)

	clock.Now()
	assert.Equal(t, Epoch.Add(250*time.Millisecond), clock.Now())
	assert.Equal(t, Epoch.Add(500*time.Millisecond), clock.Peek())
	assert.Equal(t, Epoch.Add(500*time.Millisecond), clock.Peek(), "Peek must not advance")
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(Epoch, time.Second)
	clock.Now()
	clock.Now()

	clock.Reset()

	assert.Equal(t, Epoch, clock.Now())
}

func TestStepClock_ConcurrentAccess(t *testing.T) {
	clock := NewStepClock(Epoch, time.Millisecond)
	const goroutines = 100

	var wg sync.WaitGroup
	seen := make(chan time.Time, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- clock.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		unique[ts] = true
	}
	assert.Len(t, unique, goroutines, "every call must observe a distinct time")
	assert.Equal(t, Epoch.Add(goroutines*time.Millisecond), clock.Peek())
}
