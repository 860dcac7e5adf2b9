package worker

import (
	"context"
	"strconv"
	"time"

	"github.com/prepwise/quizmaster-backend/internal/config"
	"github.com/prepwise/quizmaster-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	StatsPollTimeout = 1 * time.Second

	// A busy quiz gets queued once per submission; deduping within a
	// drain pass avoids recomputing the same aggregates back to back.
	StatsDrainLimit = 100
)

// StatsWorker consumes quiz IDs from the refresh queue and recomputes
// each quiz's cached aggregates. Submissions only enqueue, so a slow
// stats query never sits on the request path.
type StatsWorker struct {
	scores *service.ScoreService
	rdb    *redis.Client
	log    zerolog.Logger
}

// NewStatsWorker creates a new StatsWorker.
func NewStatsWorker(scores *service.ScoreService, rdb *redis.Client, log zerolog.Logger) *StatsWorker {
	return &StatsWorker{
		scores: scores,
		rdb:    rdb,
		log:    log.With().Str("component", "stats_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled, then drains what
// is left on the queue before returning.
func (w *StatsWorker) Start(ctx context.Context) {
	w.log.Info().Msg("StatsWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Draining stats queue...")
			w.drain(context.Background())
			return

		default:
			item, err := w.rdb.BLPop(ctx, StatsPollTimeout, config.WorkerKey.RefreshStatsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			w.refresh(ctx, item[1])
		}
	}
}

func (w *StatsWorker) refresh(ctx context.Context, rawID string) {
	quizID, err := strconv.Atoi(rawID)
	if err != nil {
		w.log.Error().Str("payload", rawID).Msg("Invalid quiz ID on stats queue")
		return
	}

	if _, err := w.scores.RefreshQuizStats(ctx, quizID); err != nil {
		w.log.Error().Err(err).Int("quiz_id", quizID).Msg("Stats refresh failed")
		return
	}

	w.log.Debug().Int("quiz_id", quizID).Msg("Quiz stats refreshed")
}

// drain empties the queue without blocking, deduping quiz IDs so each
// quiz is recomputed once.
func (w *StatsWorker) drain(ctx context.Context) {
	seen := make(map[string]bool)

	for i := 0; i < StatsDrainLimit; i++ {
		rawID, err := w.rdb.LPop(ctx, config.WorkerKey.RefreshStatsQueue).Result()
		if err != nil {
			return
		}
		if seen[rawID] {
			continue
		}
		seen[rawID] = true
		w.refresh(ctx, rawID)
	}
}
