package attempt

import (
	"fmt"
	"sync"
	"time"
)

// ExpireFunc is called exactly once when an attempt's countdown runs out
// before any manual submission. It receives the attempt with its answer
// store frozen.
type ExpireFunc func(a *Attempt)

// Registry holds every in-progress attempt, keyed by (user, quiz).
// Starting an attempt that already exists replaces it and restarts the
// full duration — reopening the quiz view abandons the old countdown.
type Registry struct {
	mu       sync.Mutex
	attempts map[string]*Attempt

	// grace is added on top of the quiz duration before the server
	// auto-submits, leaving room for an in-flight manual submission
	// that raced the client-side countdown.
	grace time.Duration
}

// NewRegistry creates an attempt registry. grace may be zero.
func NewRegistry(grace time.Duration) *Registry {
	return &Registry{
		attempts: make(map[string]*Attempt),
		grace:    grace,
	}
}

func key(quizID, userID int) string {
	return fmt.Sprintf("%d:%d", userID, quizID)
}

// Start begins a new attempt and arms its expiry timer. onExpire fires
// in its own goroutine if the countdown (plus grace) elapses before
// Finish or Cancel is called.
func (r *Registry) Start(quizID, userID int, duration time.Duration, onExpire ExpireFunc) *Attempt {
	a := newAttempt(quizID, userID, duration)
	k := key(quizID, userID)

	r.mu.Lock()
	if prev, ok := r.attempts[k]; ok {
		prev.Cancel()
	}
	r.attempts[k] = a
	r.mu.Unlock()

	a.setTimer(time.AfterFunc(time.Until(a.deadline)+r.grace, func() {
		if !a.Finish() {
			return
		}
		r.Remove(quizID, userID)
		if onExpire != nil {
			onExpire(a)
		}
	}))

	return a
}

// Get returns the in-progress attempt for a (quiz, user) pair, if any.
func (r *Registry) Get(quizID, userID int) (*Attempt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[key(quizID, userID)]
	return a, ok
}

// Remove drops the attempt from the registry. It does not touch the
// attempt's timer; callers finish or cancel first.
func (r *Registry) Remove(quizID, userID int) {
	r.mu.Lock()
	delete(r.attempts, key(quizID, userID))
	r.mu.Unlock()
}

// Len reports the number of tracked attempts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attempts)
}

// Shutdown cancels every tracked attempt without scoring it. In-flight
// countdowns do not survive a restart; clients restore their state via
// the attempt-state endpoint.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, a := range r.attempts {
		a.Cancel()
		delete(r.attempts, k)
	}
}
