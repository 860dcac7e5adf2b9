package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prepwise/quizmaster-backend/internal/config"
	"github.com/prepwise/quizmaster-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ReminderWorker posts a daily digest of tomorrow's quizzes to the
// configured webhook (e.g. a chat channel), addressed to users who
// opted into notifications. Disabled when no webhook URL is set.
type ReminderWorker struct {
	cfg      *config.Config
	quizzes  *repository.QuizRepository
	users    *repository.UserRepository
	client   *http.Client
	log      zerolog.Logger
	now      func() time.Time
}

// NewReminderWorker creates a new ReminderWorker.
func NewReminderWorker(
	cfg *config.Config,
	quizzes *repository.QuizRepository,
	users *repository.UserRepository,
	log zerolog.Logger,
) *ReminderWorker {
	return &ReminderWorker{
		cfg:     cfg,
		quizzes: quizzes,
		users:   users,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log.With().Str("component", "reminder_worker").Logger(),
		now:     time.Now,
	}
}

// Start sleeps until the configured hour each day, sends the digest,
// and repeats until ctx is cancelled.
func (w *ReminderWorker) Start(ctx context.Context) {
	if w.cfg.ReminderWebhookURL == "" {
		w.log.Info().Msg("No reminder webhook configured, worker idle")
		return
	}

	w.log.Info().Int("hour", w.cfg.ReminderHour).Msg("ReminderWorker started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.untilNextRun()):
			if err := w.SendDigest(ctx); err != nil {
				w.log.Error().Err(err).Msg("Reminder digest failed")
			}
		}
	}
}

// untilNextRun returns the duration until the next occurrence of the
// configured reminder hour.
func (w *ReminderWorker) untilNextRun() time.Duration {
	now := w.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), w.cfg.ReminderHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

type reminderPayload struct {
	Text string `json:"text"`
}

// SendDigest posts tomorrow's quiz lineup to the webhook. No quizzes or
// no notifiable users means no post.
func (w *ReminderWorker) SendDigest(ctx context.Context) error {
	tomorrow := w.now().AddDate(0, 0, 1)

	quizzes, err := w.quizzes.ListScheduledOn(ctx, tomorrow)
	if err != nil {
		return fmt.Errorf("list scheduled quizzes: %w", err)
	}
	if len(quizzes) == 0 {
		w.log.Debug().Msg("No quizzes scheduled tomorrow, skipping digest")
		return nil
	}

	users, err := w.users.ListNotifiable(ctx)
	if err != nil {
		return fmt.Errorf("list notifiable users: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	text := fmt.Sprintf("Reminder: %d quiz(es) scheduled for %s. %d subscribed user(s).",
		len(quizzes), tomorrow.Format("2006-01-02"), len(users))

	body, err := json.Marshal(reminderPayload{Text: text})
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.ReminderWebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	w.log.Info().Int("quizzes", len(quizzes)).Int("users", len(users)).Msg("Reminder digest sent")
	return nil
}
