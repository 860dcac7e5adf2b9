package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/prepwise/quizmaster-backend/internal/attempt"
	"github.com/prepwise/quizmaster-backend/internal/config"
	"github.com/prepwise/quizmaster-backend/internal/model"
	"github.com/prepwise/quizmaster-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Attempt flow errors.
var (
	ErrAlreadyAttempted = errors.New("quiz already attempted by this user")
	ErrNotAttempted     = errors.New("quiz not attempted yet")
	ErrUnknownQuestion  = errors.New("answer references a question outside this quiz")
	ErrNoActiveAttempt  = errors.New("no attempt in progress")
)

// AttemptService drives the timed attempt workflow: it serves the quiz
// payload, runs the server-side countdown, grades submissions, and
// reconciles results. Scoring is authoritative here — the client's
// countdown is a convenience, not a source of truth.
type AttemptService struct {
	cfg       *config.Config
	quizzes   *QuizService
	scoreRepo *repository.ScoreRepository
	registry  *attempt.Registry
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	cfg *config.Config,
	quizzes *QuizService,
	scoreRepo *repository.ScoreRepository,
	registry *attempt.Registry,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		cfg:       cfg,
		quizzes:   quizzes,
		scoreRepo: scoreRepo,
		registry:  registry,
		rdb:       rdb,
		log:       log.With().Str("component", "attempt_service").Logger(),
	}
}

// ─── Scoring primitives ────────────────────────────────────────────────

// Grade counts how many submitted answers match the answer key. A
// missing entry is unanswered and counts wrong; so does any option value
// that does not match, including indexes outside 1–4.
func Grade(answerKey, answers map[int]int) int {
	correct := 0
	for qid, want := range answerKey {
		if got, ok := answers[qid]; ok && got == want {
			correct++
		}
	}
	return correct
}

// Percentage converts a correct count into a 0–100 score with one
// decimal of precision. Zero total questions yields 0 rather than a
// division error.
func Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(correct) / float64(total) * 100
	return math.Round(pct*10) / 10
}

// SnapshotAnswers builds the per-question persistence rows for a graded
// submission. A selection outside the 1–4 option range grades as wrong
// and is stored as unanswered, so the snapshot always satisfies the
// score_answers check constraint.
func SnapshotAnswers(answerKey, answers map[int]int) []model.ScoreAnswer {
	snapshot := make([]model.ScoreAnswer, 0, len(answerKey))
	for qid, want := range answerKey {
		selected := answers[qid]
		if selected < 1 || selected > model.OptionCount {
			selected = 0
		}
		snapshot = append(snapshot, model.ScoreAnswer{
			QuestionID:     qid,
			SelectedOption: selected,
			IsCorrect:      selected == want,
		})
	}
	return snapshot
}

// ─── Quiz Loader ───────────────────────────────────────────────────────

// StartAttempt loads the quiz payload and starts the countdown. The
// timer runs from now for the quiz duration (default applies when the
// quiz has none); when it expires the attempt is auto-submitted with
// whatever answers were autosaved, possibly none.
func (s *AttemptService) StartAttempt(ctx context.Context, quizID, userID int) (*model.QuizPayload, error) {
	if _, err := s.scoreRepo.GetByQuizAndUser(ctx, quizID, userID); err == nil {
		return nil, ErrAlreadyAttempted
	}

	payload, err := s.quizzes.GetQuizPayload(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(payload.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	minutes := payload.DurationMinutes
	if minutes <= 0 {
		minutes = s.cfg.DefaultQuizMinutes
		payload.DurationMinutes = minutes
	}
	duration := time.Duration(minutes) * time.Minute

	// A fresh start abandons any previous countdown and autosaves.
	s.rdb.Del(ctx, config.CacheKey.UserAnswersKey(quizID, userID))

	s.registry.Start(quizID, userID, duration, func(a *attempt.Attempt) {
		s.autoSubmit(a)
	})

	return payload, nil
}

// ─── Answer Store ──────────────────────────────────────────────────────

// SelectAnswer records one selection for an in-progress attempt,
// overwriting any prior choice for that question. The selection is
// mirrored to Redis so a reconnecting client can restore its state.
func (s *AttemptService) SelectAnswer(ctx context.Context, quizID, userID, questionID, option int) error {
	a, ok := s.registry.Get(quizID, userID)
	if !ok || a.Submitted() {
		return ErrNoActiveAttempt
	}

	answerKey, err := s.quizzes.GetAnswerKey(ctx, quizID)
	if err != nil {
		return err
	}
	if _, ok := answerKey[questionID]; !ok {
		return ErrUnknownQuestion
	}

	a.Select(questionID, option)
	return s.rdb.HSet(ctx, config.CacheKey.UserAnswersKey(quizID, userID), strconv.Itoa(questionID), option).Err()
}

// GetState reports the remaining time and autosaved answers of an
// in-progress attempt so a reconnecting client can pick up where it
// left off.
func (s *AttemptService) GetState(ctx context.Context, quizID, userID int) (*model.AttemptState, error) {
	a, ok := s.registry.Get(quizID, userID)
	if !ok || a.Submitted() {
		return nil, ErrNoActiveAttempt
	}

	saved, err := s.rdb.HGetAll(ctx, config.CacheKey.UserAnswersKey(quizID, userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get autosaved answers: %w", err)
	}
	answers := make(map[string]int, len(saved))
	for qid, optStr := range saved {
		if opt, err := strconv.Atoi(optStr); err == nil {
			answers[qid] = opt
		}
	}

	return &model.AttemptState{
		QuizID:           quizID,
		UserID:           userID,
		AutosavedAnswers: answers,
		RemainingSeconds: a.Remaining().Seconds(),
	}, nil
}

// Attempt exposes the live attempt for a (quiz, user) pair, if any.
func (s *AttemptService) Attempt(quizID, userID int) (*attempt.Attempt, bool) {
	return s.registry.Get(quizID, userID)
}

// CancelAttempt tears down an in-progress attempt without scoring it
// (the user navigated away before submitting).
func (s *AttemptService) CancelAttempt(ctx context.Context, quizID, userID int) {
	if a, ok := s.registry.Get(quizID, userID); ok {
		a.Cancel()
		s.registry.Remove(quizID, userID)
		s.rdb.Del(ctx, config.CacheKey.UserAnswersKey(quizID, userID))
	}
}

// ─── Submission Handler + Scoring Engine ───────────────────────────────

// SubmitAnswers grades a manual submission and persists the score. Only
// the first submission wins: if the countdown expired and auto-submitted
// already, or the user double-submitted, ErrAlreadyAttempted is
// returned. Unknown question IDs reject the whole submission.
func (s *AttemptService) SubmitAnswers(ctx context.Context, quizID, userID int, answers map[int]int) (*model.SubmitQuizResult, error) {
	answerKey, err := s.quizzes.GetAnswerKey(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(answerKey) == 0 {
		// An empty key is indistinguishable from a quiz that does not
		// exist; only a quiz lookup can tell them apart.
		if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
			return nil, err
		}
	}
	for qid := range answers {
		if _, ok := answerKey[qid]; !ok {
			return nil, ErrUnknownQuestion
		}
	}

	if a, ok := s.registry.Get(quizID, userID); ok {
		// The submitted payload supersedes autosaves for the same questions.
		a.Merge(answers)
		if !a.Finish() {
			return nil, ErrAlreadyAttempted
		}
		s.registry.Remove(quizID, userID)
		answers = a.Answers()
	}

	return s.score(ctx, quizID, userID, answerKey, answers)
}

// autoSubmit fires when an attempt's countdown runs out. It grades the
// autosaved answers (possibly none) under a background context — a
// disconnected client must not prevent the score from being written.
func (s *AttemptService) autoSubmit(a *attempt.Attempt) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	answers := a.Answers()

	// Pull any selections that only reached Redis (another instance's
	// WS connection, or an earlier process).
	if saved, err := s.rdb.HGetAll(ctx, config.CacheKey.UserAnswersKey(a.QuizID, a.UserID)).Result(); err == nil {
		for qidStr, optStr := range saved {
			qid, err1 := strconv.Atoi(qidStr)
			opt, err2 := strconv.Atoi(optStr)
			if err1 == nil && err2 == nil {
				if _, ok := answers[qid]; !ok {
					answers[qid] = opt
				}
			}
		}
	}

	answerKey, err := s.quizzes.GetAnswerKey(ctx, a.QuizID)
	if err != nil {
		s.log.Error().Err(err).Int("quiz_id", a.QuizID).Int("user_id", a.UserID).
			Msg("Auto-submit failed to load answer key")
		return
	}

	result, err := s.score(ctx, a.QuizID, a.UserID, answerKey, answers)
	if err != nil {
		if !errors.Is(err, ErrAlreadyAttempted) {
			s.log.Error().Err(err).Int("quiz_id", a.QuizID).Int("user_id", a.UserID).
				Msg("Auto-submit scoring failed")
		}
		return
	}

	s.log.Info().
		Int("quiz_id", a.QuizID).
		Int("user_id", a.UserID).
		Float64("score", result.Percentage).
		Int("answered", len(answers)).
		Msg("Attempt auto-submitted on expiry")
}

// score runs the single grading pass and persists the Score with its
// per-question snapshot in one transaction.
func (s *AttemptService) score(ctx context.Context, quizID, userID int, answerKey, answers map[int]int) (*model.SubmitQuizResult, error) {
	total := len(answerKey)
	correct := Grade(answerKey, answers)
	pct := Percentage(correct, total)

	if total == 0 {
		// Degenerate attempt: a quiz stripped of its questions between
		// load and submit still scores 0.0 rather than failing.
		s.log.Warn().Int("quiz_id", quizID).Int("user_id", userID).
			Msg("Scoring a quiz with zero questions")
	}

	snapshot := SnapshotAnswers(answerKey, answers)

	sc := &model.Score{
		QuizID:      quizID,
		UserID:      userID,
		Percentage:  pct,
		AttemptedAt: time.Now(),
	}
	if err := s.scoreRepo.CreateWithAnswers(ctx, sc, snapshot); err != nil {
		if errors.Is(err, repository.ErrDuplicateScore) {
			return nil, ErrAlreadyAttempted
		}
		return nil, fmt.Errorf("persist score: %w", err)
	}

	// The attempt is durable; its scratch state can go.
	s.rdb.Del(ctx, config.CacheKey.UserAnswersKey(quizID, userID))
	s.rdb.RPush(ctx, config.WorkerKey.RefreshStatsQueue, quizID)

	return &model.SubmitQuizResult{
		ScoreID:        sc.ID,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Percentage:     pct,
	}, nil
}

// ─── Results Viewer ────────────────────────────────────────────────────

// AnswersView is the per-question correctness breakdown of a scored
// attempt.
type AnswersView struct {
	QuizID      int                  `json:"quiz_id"`
	Score       float64              `json:"score"`
	Remarks     *string              `json:"remarks,omitempty"`
	AttemptedAt time.Time            `json:"time_stamp_of_attempt"`
	Questions   []model.AnswerReview `json:"questions"`
}

// ViewAnswers reconciles a persisted score with its question set:
// every question with its options, the correct option, the user's
// selection and whether it was correct. Read-only.
func (s *AttemptService) ViewAnswers(ctx context.Context, quizID, userID int) (*AnswersView, error) {
	sc, err := s.scoreRepo.GetByQuizAndUser(ctx, quizID, userID)
	if err != nil {
		return nil, ErrNotAttempted
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	questions, err := s.quizzes.questionRepo.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	snapshot, err := s.scoreRepo.GetAnswers(ctx, sc.ID)
	if err != nil {
		return nil, fmt.Errorf("load answer snapshot: %w", err)
	}

	reviews := make([]model.AnswerReview, len(questions))
	for i := range questions {
		q := &questions[i]
		review := model.AnswerReview{QuestionWithAnswer: q.WithAnswer()}
		if a, ok := snapshot[q.ID]; ok {
			review.SelectedOption = a.SelectedOption
			review.IsCorrect = a.IsCorrect
		}
		reviews[i] = review
	}

	return &AnswersView{
		QuizID:      quizID,
		Score:       sc.Percentage,
		Remarks:     quiz.Remarks,
		AttemptedAt: sc.AttemptedAt,
		Questions:   reviews,
	}, nil
}
