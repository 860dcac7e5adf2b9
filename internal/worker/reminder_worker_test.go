package worker

import (
	"testing"
	"time"

	"github.com/prepwise/quizmaster-backend/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func reminderAt(hour int, now time.Time) *ReminderWorker {
	w := NewReminderWorker(&config.Config{ReminderHour: hour}, nil, nil, zerolog.Nop())
	w.now = func() time.Time { return now }
	return w
}

func TestUntilNextRunLaterToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	w := reminderAt(18, now)

	assert.Equal(t, 9*time.Hour, w.untilNextRun())
}

func TestUntilNextRunRollsToTomorrow(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 30, 0, 0, time.UTC)
	w := reminderAt(18, now)

	assert.Equal(t, 21*time.Hour+30*time.Minute, w.untilNextRun())
}

func TestUntilNextRunExactlyAtHour(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	w := reminderAt(18, now)

	// The current tick has passed; the next run is a full day out.
	assert.Equal(t, 24*time.Hour, w.untilNextRun())
}
