package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepwise/quizmaster-backend/internal/model"
)

// ErrDuplicateScore is returned when a (quiz, user) pair already has a
// persisted score — attempts are scored at most once.
var ErrDuplicateScore = fmt.Errorf("score already exists for this quiz and user")

// ScoreRepository handles score and answer-snapshot data access.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// CreateWithAnswers persists a score plus its per-question answer
// snapshot in a single transaction. The unique (quiz_id, user_id)
// constraint rejects repeat attempts; on conflict ErrDuplicateScore is
// returned and nothing is written.
func (r *ScoreRepository) CreateWithAnswers(ctx context.Context, s *model.Score, answers []model.ScoreAnswer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO scores (quiz_id, user_id, percentage, attempted_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (quiz_id, user_id) DO NOTHING
		 RETURNING id`,
		s.QuizID, s.UserID, s.Percentage, s.AttemptedAt,
	).Scan(&s.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrDuplicateScore
		}
		return fmt.Errorf("insert score: %w", err)
	}

	if len(answers) > 0 {
		rows := make([][]any, len(answers))
		for i, a := range answers {
			rows[i] = []any{s.ID, a.QuestionID, a.SelectedOption, a.IsCorrect}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"score_answers"},
			[]string{"score_id", "question_id", "selected_option", "is_correct"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("insert answers: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByQuizAndUser retrieves a user's score for one quiz.
func (r *ScoreRepository) GetByQuizAndUser(ctx context.Context, quizID, userID int) (*model.Score, error) {
	s := &model.Score{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, user_id, percentage, attempted_at
		 FROM scores WHERE quiz_id = $1 AND user_id = $2`, quizID, userID,
	).Scan(&s.ID, &s.QuizID, &s.UserID, &s.Percentage, &s.AttemptedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetAnswers retrieves the answer snapshot for a score, keyed by question.
func (r *ScoreRepository) GetAnswers(ctx context.Context, scoreID int) (map[int]model.ScoreAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id, selected_option, is_correct
		 FROM score_answers WHERE score_id = $1`, scoreID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make(map[int]model.ScoreAnswer)
	for rows.Next() {
		a := model.ScoreAnswer{ScoreID: scoreID}
		if err := rows.Scan(&a.QuestionID, &a.SelectedOption, &a.IsCorrect); err != nil {
			return nil, err
		}
		answers[a.QuestionID] = a
	}
	return answers, rows.Err()
}

// ListByUser retrieves a user's scores with catalog context, newest
// first, with optional subject/chapter/date filters.
func (r *ScoreRepository) ListByUser(ctx context.Context, userID int, subjectID, chapterID *int, from, to *time.Time) ([]model.ScoreDetail, error) {
	query := `
		SELECT sc.id, sc.quiz_id, sc.user_id, sc.percentage, sc.attempted_at,
		       q.date_of_quiz, c.name, s.name
		FROM scores sc
		JOIN quizzes q ON sc.quiz_id = q.id
		JOIN chapters c ON q.chapter_id = c.id
		JOIN subjects s ON c.subject_id = s.id
		WHERE sc.user_id = $1
	`
	args := []any{userID}
	if subjectID != nil {
		args = append(args, *subjectID)
		query += fmt.Sprintf(" AND c.subject_id = $%d", len(args))
	}
	if chapterID != nil {
		args = append(args, *chapterID)
		query += fmt.Sprintf(" AND q.chapter_id = $%d", len(args))
	}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND sc.attempted_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND sc.attempted_at <= $%d", len(args))
	}
	query += ` ORDER BY sc.attempted_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []model.ScoreDetail
	for rows.Next() {
		var d model.ScoreDetail
		if err := rows.Scan(&d.ID, &d.QuizID, &d.UserID, &d.Percentage, &d.AttemptedAt,
			&d.QuizDate, &d.ChapterName, &d.SubjectName); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// UserStats computes attempt count, average and best score for one user.
func (r *ScoreRepository) UserStats(ctx context.Context, userID int) (*model.UserStats, error) {
	st := &model.UserStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(percentage), 0), COALESCE(MAX(percentage), 0)
		 FROM scores WHERE user_id = $1`, userID,
	).Scan(&st.TotalQuizzes, &st.AverageScore, &st.BestScore)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// QuizStats aggregates all attempts of one quiz.
func (r *ScoreRepository) QuizStats(ctx context.Context, quizID int) (*model.QuizStats, error) {
	st := &model.QuizStats{QuizID: quizID}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(percentage), 0), COALESCE(MIN(percentage), 0), COALESCE(MAX(percentage), 0)
		 FROM scores WHERE quiz_id = $1`, quizID,
	).Scan(&st.TotalAttempts, &st.AverageScore, &st.MinScore, &st.MaxScore)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// QuizLeaderboard returns the top scores for one quiz.
func (r *ScoreRepository) QuizLeaderboard(ctx context.Context, quizID, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.full_name, sc.percentage
		 FROM scores sc
		 JOIN users u ON sc.user_id = u.id
		 WHERE sc.quiz_id = $1
		 ORDER BY sc.percentage DESC, sc.attempted_at ASC
		 LIMIT $2`, quizID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Score); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GlobalLeaderboard ranks users by average score across quizzes; users
// with fewer than minAttempts attempts are excluded.
func (r *ScoreRepository) GlobalLeaderboard(ctx context.Context, minAttempts, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.full_name, AVG(sc.percentage) AS avg_score, COUNT(sc.id)
		 FROM scores sc
		 JOIN users u ON sc.user_id = u.id
		 GROUP BY u.id, u.full_name
		 HAVING COUNT(sc.id) >= $1
		 ORDER BY avg_score DESC
		 LIMIT $2`, minAttempts, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Score, &e.QuizzesTaken); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
