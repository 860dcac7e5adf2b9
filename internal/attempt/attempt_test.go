package attempt

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDurationApplied(t *testing.T) {
	r := NewRegistry(0)
	defer r.Shutdown()

	a := r.Start(1, 1, 0, nil)
	assert.Greater(t, a.Remaining(), DefaultDuration-time.Second)
	assert.LessOrEqual(t, a.Remaining(), DefaultDuration)
}

func TestSelectOverwrites(t *testing.T) {
	r := NewRegistry(0)
	defer r.Shutdown()

	a := r.Start(1, 1, time.Minute, nil)
	a.Select(10, 2)
	a.Select(10, 4)
	a.Select(11, 1)

	answers := a.Answers()
	assert.Equal(t, map[int]int{10: 4, 11: 1}, answers)
}

func TestSelectAfterFinishDropped(t *testing.T) {
	r := NewRegistry(0)
	defer r.Shutdown()

	a := r.Start(1, 1, time.Minute, nil)
	a.Select(10, 2)
	require.True(t, a.Finish())

	a.Select(10, 3)
	a.Select(11, 1)
	assert.Equal(t, map[int]int{10: 2}, a.Answers())
}

func TestAnswersReturnsCopy(t *testing.T) {
	r := NewRegistry(0)
	defer r.Shutdown()

	a := r.Start(1, 1, time.Minute, nil)
	a.Select(10, 2)

	got := a.Answers()
	got[10] = 9
	got[99] = 1

	assert.Equal(t, map[int]int{10: 2}, a.Answers())
}

func TestMergeSupersedesAutosaves(t *testing.T) {
	r := NewRegistry(0)
	defer r.Shutdown()

	a := r.Start(1, 1, time.Minute, nil)
	a.Select(10, 1)
	a.Select(11, 2)

	a.Merge(map[int]int{11: 3, 12: 4})
	assert.Equal(t, map[int]int{10: 1, 11: 3, 12: 4}, a.Answers())
}

func TestFinishExactlyOnce(t *testing.T) {
	r := NewRegistry(0)
	defer r.Shutdown()

	a := r.Start(1, 1, time.Minute, nil)

	const racers = 32
	var wins atomic.Int32
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func() {
			defer wg.Done()
			if a.Finish() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.True(t, a.Submitted())
}

func TestExpiryFiresOnce(t *testing.T) {
	r := NewRegistry(0)
	defer r.Shutdown()

	var fired atomic.Int32
	r.Start(1, 1, 20*time.Millisecond, func(a *Attempt) {
		fired.Add(1)
	})

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)

	// Expiry removes the attempt from the registry.
	_, ok := r.Get(1, 1)
	assert.False(t, ok)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestManualFinishPreventsExpiry(t *testing.T) {
	r := NewRegistry(0)
	defer r.Shutdown()

	var fired atomic.Int32
	a := r.Start(1, 1, 30*time.Millisecond, func(a *Attempt) {
		fired.Add(1)
	})

	require.True(t, a.Finish())
	r.Remove(1, 1)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestCancelPreventsExpiry(t *testing.T) {
	r := NewRegistry(0)
	defer r.Shutdown()

	var fired atomic.Int32
	a := r.Start(1, 1, 30*time.Millisecond, func(a *Attempt) {
		fired.Add(1)
	})

	a.Cancel()
	r.Remove(1, 1)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.False(t, a.Finish(), "cancelled attempt cannot be finished")
}

func TestGraceDelaysExpiry(t *testing.T) {
	r := NewRegistry(100 * time.Millisecond)
	defer r.Shutdown()

	var fired atomic.Int32
	a := r.Start(1, 1, 20*time.Millisecond, func(a *Attempt) {
		fired.Add(1)
	})

	// Deadline has passed but the grace window is still open, so a late
	// manual submission still wins.
	time.Sleep(50 * time.Millisecond)
	assert.True(t, a.Expired())
	assert.Equal(t, int32(0), fired.Load())
	assert.True(t, a.Finish())

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestStartReplacesExistingAttempt(t *testing.T) {
	r := NewRegistry(0)
	defer r.Shutdown()

	first := r.Start(1, 1, time.Minute, nil)
	first.Select(10, 2)

	second := r.Start(1, 1, time.Minute, nil)

	assert.True(t, first.Submitted(), "replaced attempt is cancelled")
	assert.Empty(t, second.Answers(), "fresh attempt starts with an empty store")
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(1, 1)
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestAttemptsAreIsolatedPerUser(t *testing.T) {
	r := NewRegistry(0)
	defer r.Shutdown()

	a1 := r.Start(1, 1, time.Minute, nil)
	a2 := r.Start(1, 2, time.Minute, nil)

	a1.Select(10, 1)
	a2.Select(10, 3)

	assert.Equal(t, map[int]int{10: 1}, a1.Answers())
	assert.Equal(t, map[int]int{10: 3}, a2.Answers())
	assert.Equal(t, 2, r.Len())
}

func TestShutdownCancelsAll(t *testing.T) {
	r := NewRegistry(0)

	var fired atomic.Int32
	r.Start(1, 1, 20*time.Millisecond, func(a *Attempt) { fired.Add(1) })
	r.Start(2, 1, 20*time.Millisecond, func(a *Attempt) { fired.Add(1) })

	r.Shutdown()
	assert.Equal(t, 0, r.Len())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestRemainingFlooredAtZero(t *testing.T) {
	r := NewRegistry(time.Second)
	defer r.Shutdown()

	a := r.Start(1, 1, 5*time.Millisecond, nil)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, time.Duration(0), a.Remaining())
	assert.True(t, a.Expired())
}
