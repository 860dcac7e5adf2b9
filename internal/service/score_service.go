package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prepwise/quizmaster-backend/internal/config"
	"github.com/prepwise/quizmaster-backend/internal/model"
	"github.com/prepwise/quizmaster-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ScoreFilter narrows a user's score history.
type ScoreFilter struct {
	SubjectID *int
	ChapterID *int
	From      *time.Time
	To        *time.Time
}

// ScoreService serves score history, per-user statistics and
// leaderboards. Quiz-level aggregates are cached in Redis and refreshed
// by the stats worker after each submission.
type ScoreService struct {
	scoreRepo *repository.ScoreRepository
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewScoreService creates a new ScoreService.
func NewScoreService(scoreRepo *repository.ScoreRepository, rdb *redis.Client, log zerolog.Logger) *ScoreService {
	return &ScoreService{
		scoreRepo: scoreRepo,
		rdb:       rdb,
		log:       log.With().Str("component", "score_service").Logger(),
	}
}

// History lists the user's scores, newest first, optionally filtered by
// subject, chapter or attempt date.
func (s *ScoreService) History(ctx context.Context, userID int, filter ScoreFilter) ([]model.ScoreDetail, error) {
	return s.scoreRepo.ListByUser(ctx, userID, filter.SubjectID, filter.ChapterID, filter.From, filter.To)
}

// UserStats summarizes one user's performance across all their attempts.
func (s *ScoreService) UserStats(ctx context.Context, userID int) (*model.UserStats, error) {
	return s.scoreRepo.UserStats(ctx, userID)
}

// QuizStats returns the aggregate statistics of one quiz, preferring
// the worker-maintained cache and falling back to a direct query on a
// miss.
func (s *ScoreService) QuizStats(ctx context.Context, quizID int) (*model.QuizStats, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.QuizStatsKey(quizID)).Result()
	if err == nil {
		var stats model.QuizStats
		if jsonErr := json.Unmarshal([]byte(raw), &stats); jsonErr == nil {
			return &stats, nil
		}
		s.log.Warn().Int("quiz_id", quizID).Msg("Corrupt cached quiz stats, recomputing")
	}

	stats, err := s.RefreshQuizStats(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RefreshQuizStats recomputes a quiz's aggregates from Postgres and
// writes them back to the cache. The stats worker calls this for every
// quiz ID it pops off the refresh queue.
func (s *ScoreService) RefreshQuizStats(ctx context.Context, quizID int) (*model.QuizStats, error) {
	stats, err := s.scoreRepo.QuizStats(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("compute quiz stats: %w", err)
	}
	stats.UpdatedAt = time.Now().Format(time.RFC3339)

	payload, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("marshal quiz stats: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.QuizStatsKey(quizID), payload, 0).Err(); err != nil {
		s.log.Warn().Err(err).Int("quiz_id", quizID).Msg("Failed to cache quiz stats")
	}

	return stats, nil
}

// QuizLeaderboard returns the top scores for one quiz.
func (s *ScoreService) QuizLeaderboard(ctx context.Context, quizID, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.scoreRepo.QuizLeaderboard(ctx, quizID, limit)
}

// GlobalLeaderboard ranks users by average score across all quizzes.
// Users with fewer than minAttempts scored quizzes are excluded so a
// single lucky attempt cannot top the board.
func (s *ScoreService) GlobalLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	const minAttempts = 3
	return s.scoreRepo.GlobalLeaderboard(ctx, minAttempts, limit)
}
