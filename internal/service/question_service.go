package service

import (
	"context"
	"fmt"

	"github.com/prepwise/quizmaster-backend/internal/model"
	"github.com/prepwise/quizmaster-backend/internal/repository"
	"github.com/rs/zerolog"
)

// QuestionService handles question authoring. Every write re-warms the
// owning quiz's payload and answer-key caches.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	quizRepo     *repository.QuizRepository
	quizService  *QuizService
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	quizRepo *repository.QuizRepository,
	quizService *QuizService,
	log zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		quizRepo:     quizRepo,
		quizService:  quizService,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// ListByQuiz returns a quiz's questions with their correct options
// (admin view).
func (s *QuestionService) ListByQuiz(ctx context.Context, quizID int) ([]model.Question, error) {
	if _, err := s.quizRepo.GetByID(ctx, quizID); err != nil {
		return nil, err
	}
	return s.questionRepo.ListByQuiz(ctx, quizID)
}

// Create adds a question to a quiz.
func (s *QuestionService) Create(ctx context.Context, q *model.Question) error {
	quiz, err := s.quizRepo.GetByID(ctx, q.QuizID)
	if err != nil {
		return fmt.Errorf("get quiz: %w", err)
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return err
	}
	s.rewarm(ctx, quiz)
	return nil
}

// Update edits a question in place. The write is scoped to q.QuizID so
// a question can never be edited through another quiz's route, and the
// rewarmed cache is always the owning quiz's.
func (s *QuestionService) Update(ctx context.Context, q *model.Question) error {
	if err := s.questionRepo.Update(ctx, q); err != nil {
		return err
	}
	if quiz, err := s.quizRepo.GetByID(ctx, q.QuizID); err == nil {
		s.rewarm(ctx, quiz)
	}
	return nil
}

// Delete removes a question from its quiz. Same scoping as Update.
func (s *QuestionService) Delete(ctx context.Context, quizID, questionID int) error {
	if err := s.questionRepo.Delete(ctx, quizID, questionID); err != nil {
		return err
	}
	if quiz, err := s.quizRepo.GetByID(ctx, quizID); err == nil {
		s.rewarm(ctx, quiz)
	}
	return nil
}

func (s *QuestionService) rewarm(ctx context.Context, quiz *model.Quiz) {
	if err := s.quizService.WarmQuizCache(ctx, quiz); err != nil {
		// A quiz left without questions simply loses its cache entry.
		s.quizService.InvalidateCache(ctx, quiz.ID)
	}
}
