package handler

import (
	"testing"
	"time"

	"github.com/prepwise/quizmaster-backend/internal/attempt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptOverQuietAfterManualSubmit(t *testing.T) {
	reg := attempt.NewRegistry(time.Minute)
	defer reg.Shutdown()

	a := reg.Start(1, 1, time.Minute, nil)
	require.True(t, a.Finish())

	over, timedOut := attemptOver(a)
	assert.True(t, over)
	assert.False(t, timedOut, "a submission that beat the clock must not be announced as expired")
}

func TestAttemptOverQuietAfterCancel(t *testing.T) {
	reg := attempt.NewRegistry(time.Minute)
	defer reg.Shutdown()

	a := reg.Start(1, 1, time.Minute, nil)
	a.Cancel()

	over, timedOut := attemptOver(a)
	assert.True(t, over)
	assert.False(t, timedOut)
}

func TestAttemptOverAnnouncesTimeout(t *testing.T) {
	// Long grace keeps the auto-submit callback out of the window under
	// test; the deadline itself passes almost immediately.
	reg := attempt.NewRegistry(time.Minute)
	defer reg.Shutdown()

	a := reg.Start(1, 1, time.Millisecond, nil)
	require.Eventually(t, a.Expired, time.Second, time.Millisecond)

	over, timedOut := attemptOver(a)
	assert.True(t, over)
	assert.True(t, timedOut)
}

func TestAttemptOverFalseWhileRunning(t *testing.T) {
	reg := attempt.NewRegistry(time.Minute)
	defer reg.Shutdown()

	a := reg.Start(1, 1, time.Minute, nil)

	over, timedOut := attemptOver(a)
	assert.False(t, over)
	assert.False(t, timedOut)
}
