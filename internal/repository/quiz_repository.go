package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepwise/quizmaster-backend/internal/model"
)

type QuizRepository struct {
	pool *pgxpool.Pool
}

func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (chapter_id, date_of_quiz, duration_minutes, remarks)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		q.ChapterID, q.DateOfQuiz, q.DurationMinutes, q.Remarks,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

func (r *QuizRepository) GetByID(ctx context.Context, id int) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, chapter_id, date_of_quiz, duration_minutes, remarks, created_at, updated_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.ChapterID, &q.DateOfQuiz, &q.DurationMinutes, &q.Remarks, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetAll retrieves every quiz, newest first.
func (r *QuizRepository) GetAll(ctx context.Context) ([]model.Quiz, error) {
	return r.list(ctx,
		`SELECT id, chapter_id, date_of_quiz, duration_minutes, remarks, created_at, updated_at
		 FROM quizzes ORDER BY date_of_quiz DESC`)
}

// ListScheduledOn retrieves quizzes dated on the given day, for reminders.
func (r *QuizRepository) ListScheduledOn(ctx context.Context, day time.Time) ([]model.Quiz, error) {
	return r.list(ctx,
		`SELECT id, chapter_id, date_of_quiz, duration_minutes, remarks, created_at, updated_at
		 FROM quizzes WHERE date_of_quiz = $1 ORDER BY id`, day)
}

func (r *QuizRepository) list(ctx context.Context, query string, args ...any) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.ChapterID, &q.DateOfQuiz, &q.DurationMinutes, &q.Remarks, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// ListSummaries retrieves quizzes with catalog context and the given
// user's attempted flag, optionally filtered by chapter.
func (r *QuizRepository) ListSummaries(ctx context.Context, userID int, chapterID *int) ([]model.QuizSummary, error) {
	query := `
		SELECT q.id, q.chapter_id, q.date_of_quiz, q.duration_minutes, q.remarks, q.created_at, q.updated_at,
		       c.name, s.name,
		       (SELECT COUNT(*) FROM questions qs WHERE qs.quiz_id = q.id),
		       EXISTS (SELECT 1 FROM scores sc WHERE sc.quiz_id = q.id AND sc.user_id = $1)
		FROM quizzes q
		JOIN chapters c ON q.chapter_id = c.id
		JOIN subjects s ON c.subject_id = s.id
	`
	args := []any{userID}
	if chapterID != nil {
		query += ` WHERE q.chapter_id = $2`
		args = append(args, *chapterID)
	}
	query += ` ORDER BY q.date_of_quiz DESC, q.id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.QuizSummary
	for rows.Next() {
		var qs model.QuizSummary
		if err := rows.Scan(
			&qs.ID, &qs.ChapterID, &qs.DateOfQuiz, &qs.DurationMinutes, &qs.Remarks, &qs.CreatedAt, &qs.UpdatedAt,
			&qs.ChapterName, &qs.SubjectName, &qs.QuestionCount, &qs.HasAttempted,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, qs)
	}
	return summaries, rows.Err()
}

func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET date_of_quiz = $1, duration_minutes = $2, remarks = $3, updated_at = NOW()
		 WHERE id = $4`,
		q.DateOfQuiz, q.DurationMinutes, q.Remarks, q.ID)
	return err
}

func (r *QuizRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}
