// Package attempt tracks in-progress quiz attempts server-side: the
// per-attempt answer store, the countdown deadline, and the submitted
// flag that serializes timer expiry against manual submission.
package attempt

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDuration applies when a quiz carries no positive duration.
const DefaultDuration = 10 * time.Minute

// Attempt is the state of one user's pass through one quiz. It is
// created when the quiz-taking view loads and discarded once scored.
type Attempt struct {
	QuizID int
	UserID int

	deadline time.Time

	mu      sync.Mutex
	answers map[int]int

	// submitted is the debounce flag: the first of {timer expiry,
	// manual submit, teardown} to set it wins; all others are no-ops.
	submitted atomic.Bool
	timer     *time.Timer
}

func newAttempt(quizID, userID int, duration time.Duration) *Attempt {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Attempt{
		QuizID:   quizID,
		UserID:   userID,
		deadline: time.Now().Add(duration),
		answers:  make(map[int]int),
	}
}

// Select records the chosen option for a question, overwriting any prior
// selection (single-select semantics). Selections after submission are
// dropped.
func (a *Attempt) Select(questionID, option int) {
	if a.submitted.Load() {
		return
	}
	a.mu.Lock()
	a.answers[questionID] = option
	a.mu.Unlock()
}

// Answers returns a copy of the current answer store.
func (a *Attempt) Answers() map[int]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[int]int, len(a.answers))
	for q, opt := range a.answers {
		out[q] = opt
	}
	return out
}

// Merge overlays the given answers onto the store. Used when a manual
// submission carries the client's answer map, which supersedes whatever
// was autosaved.
func (a *Attempt) Merge(answers map[int]int) {
	a.mu.Lock()
	for q, opt := range answers {
		a.answers[q] = opt
	}
	a.mu.Unlock()
}

// Deadline returns the wall-clock instant the countdown runs out.
func (a *Attempt) Deadline() time.Time {
	return a.deadline
}

// Remaining returns the time left on the countdown, floored at zero.
func (a *Attempt) Remaining() time.Duration {
	r := time.Until(a.deadline)
	if r < 0 {
		return 0
	}
	return r
}

// Expired reports whether the deadline has passed.
func (a *Attempt) Expired() bool {
	return time.Now().After(a.deadline)
}

// Submitted reports whether the attempt has already been finished or
// cancelled.
func (a *Attempt) Submitted() bool {
	return a.submitted.Load()
}

// Finish atomically claims the attempt for submission. It returns true
// for exactly one caller; the timer is stopped so no stale auto-submit
// can fire afterwards.
func (a *Attempt) Finish() bool {
	if !a.submitted.CompareAndSwap(false, true) {
		return false
	}
	a.stopTimer()
	return true
}

// Cancel tears the attempt down without scoring it (the user navigated
// away or the server is shutting down). A cancelled attempt never
// auto-submits.
func (a *Attempt) Cancel() {
	if a.submitted.CompareAndSwap(false, true) {
		a.stopTimer()
	}
}

func (a *Attempt) stopTimer() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
}

func (a *Attempt) setTimer(t *time.Timer) {
	a.mu.Lock()
	a.timer = t
	a.mu.Unlock()
}
