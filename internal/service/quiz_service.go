package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/prepwise/quizmaster-backend/internal/config"
	"github.com/prepwise/quizmaster-backend/internal/model"
	"github.com/prepwise/quizmaster-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrNoQuestions is returned when a quiz has no questions to serve.
var ErrNoQuestions = errors.New("quiz has no questions")

// QuizService handles quiz catalog management and the Redis payload /
// answer-key caches that back the attempt flow.
type QuizService struct {
	quizRepo     *repository.QuizRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "quiz_service").Logger(),
	}
}

func (s *QuizService) GetByID(ctx context.Context, id int) (*model.Quiz, error) {
	return s.quizRepo.GetByID(ctx, id)
}

func (s *QuizService) ListSummaries(ctx context.Context, userID int, chapterID *int) ([]model.QuizSummary, error) {
	return s.quizRepo.ListSummaries(ctx, userID, chapterID)
}

func (s *QuizService) Create(ctx context.Context, quiz *model.Quiz) error {
	return s.quizRepo.Create(ctx, quiz)
}

// Update modifies a quiz and invalidates its caches so the next attempt
// sees fresh duration and remarks.
func (s *QuizService) Update(ctx context.Context, quiz *model.Quiz) error {
	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return err
	}
	s.InvalidateCache(ctx, quiz.ID)
	return nil
}

func (s *QuizService) Delete(ctx context.Context, id int) error {
	if err := s.quizRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateCache(ctx, id)
	return nil
}

// WarmQuizCache builds and caches the user-facing payload (questions
// stripped of correct options, plus duration) and the answer-key hash
// used for grading. Quizzes without questions are not cached.
func (s *QuizService) WarmQuizCache(ctx context.Context, quiz *model.Quiz) error {
	questions, err := s.questionRepo.ListByQuiz(ctx, quiz.ID)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	userQuestions := make([]model.QuestionForUser, len(questions))
	for i := range questions {
		userQuestions[i] = questions[i].ForUser()
	}

	payload := model.QuizPayload{
		QuizID:          quiz.ID,
		DurationMinutes: quiz.DurationMinutes,
		Remarks:         quiz.Remarks,
		Questions:       userQuestions,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	answerKey := make(map[string]interface{}, len(questions))
	for _, q := range questions {
		answerKey[strconv.Itoa(q.ID)] = q.CorrectOption
	}

	// Cache both atomically via pipeline.
	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.QuizPayloadKey(quiz.ID), payloadJSON, 0)
	pipe.Del(ctx, config.CacheKey.QuizAnswerKey(quiz.ID))
	pipe.HSet(ctx, config.CacheKey.QuizAnswerKey(quiz.ID), answerKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache quiz: %w", err)
	}
	return nil
}

// InvalidateCache drops a quiz's cached payload and answer key.
func (s *QuizService) InvalidateCache(ctx context.Context, quizID int) {
	if err := s.rdb.Del(ctx,
		config.CacheKey.QuizPayloadKey(quizID),
		config.CacheKey.QuizAnswerKey(quizID),
		config.CacheKey.QuizStatsKey(quizID),
	).Err(); err != nil {
		s.log.Warn().Err(err).Int("quiz_id", quizID).Msg("Cache invalidation failed")
	}
}

// PrewarmAllCaches loads every quiz with questions into Redis at
// startup, so the first wave of attempts never races lazy loading.
func (s *QuizService) PrewarmAllCaches(ctx context.Context) error {
	quizzes, err := s.quizRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list quizzes: %w", err)
	}

	if len(quizzes) == 0 {
		s.log.Info().Msg("No quizzes to prewarm")
		return nil
	}

	warmed := 0
	for i := range quizzes {
		if err := s.WarmQuizCache(ctx, &quizzes[i]); err != nil {
			if !errors.Is(err, ErrNoQuestions) {
				s.log.Warn().Err(err).Int("quiz_id", quizzes[i].ID).Msg("Failed to warm quiz, skipping")
			}
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(quizzes)).
		Msg("Quiz cache prewarm complete")
	return nil
}

// GetQuizPayload retrieves the cached user payload, rebuilding the cache
// from PostgreSQL on a miss.
func (s *QuizService) GetQuizPayload(ctx context.Context, quizID int) (*model.QuizPayload, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.QuizPayloadKey(quizID)).Bytes()
	if err == nil {
		var payload model.QuizPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
		return &payload, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get payload: %w", err)
	}

	// Cache miss — rebuild from the source of truth.
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.WarmQuizCache(ctx, quiz); err != nil {
		return nil, err
	}

	data, err = s.rdb.Get(ctx, config.CacheKey.QuizPayloadKey(quizID)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("get payload after warm: %w", err)
	}
	var payload model.QuizPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &payload, nil
}

// GetAnswerKey retrieves the question-id → correct-option map used for
// grading, falling back to PostgreSQL when the cache is cold.
func (s *QuizService) GetAnswerKey(ctx context.Context, quizID int) (map[int]int, error) {
	result, err := s.rdb.HGetAll(ctx, config.CacheKey.QuizAnswerKey(quizID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get answer key: %w", err)
	}

	if len(result) == 0 {
		questions, err := s.questionRepo.ListByQuiz(ctx, quizID)
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		key := make(map[int]int, len(questions))
		for _, q := range questions {
			key[q.ID] = q.CorrectOption
		}
		return key, nil
	}

	key := make(map[int]int, len(result))
	for qidStr, optStr := range result {
		qid, err := strconv.Atoi(qidStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt answer key field %q", qidStr)
		}
		opt, err := strconv.Atoi(optStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt answer key value %q", optStr)
		}
		key[qid] = opt
	}
	return key, nil
}
