package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepwise/quizmaster-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByQuiz retrieves all questions for a given quiz in insertion order.
func (r *QuestionRepository) ListByQuiz(ctx context.Context, quizID int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, statement, option1, option2, option3, option4, correct_option, created_at
		 FROM questions WHERE quiz_id = $1
		 ORDER BY id`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Statement,
			&q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3],
			&q.CorrectOption, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (quiz_id, statement, option1, option2, option3, option4, correct_option)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		q.QuizID, q.Statement, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.CorrectOption,
	).Scan(&q.ID, &q.CreatedAt)
}

// Update replaces a question's content. The question must belong to
// q.QuizID; pgx.ErrNoRows is returned when it does not.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET statement = $1, option1 = $2, option2 = $3, option3 = $4, option4 = $5, correct_option = $6
		 WHERE id = $7 AND quiz_id = $8`,
		q.Statement, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.CorrectOption, q.ID, q.QuizID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a question from the given quiz. pgx.ErrNoRows is
// returned when the question is missing or belongs to another quiz.
func (r *QuestionRepository) Delete(ctx context.Context, quizID, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1 AND quiz_id = $2`, id, quizID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountByQuiz returns the number of questions in a quiz.
func (r *QuestionRepository) CountByQuiz(ctx context.Context, quizID int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE quiz_id = $1`, quizID).Scan(&n)
	return n, err
}
