package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepwise/quizmaster-backend/internal/model"
)

type ChapterRepository struct {
	pool *pgxpool.Pool
}

func NewChapterRepository(pool *pgxpool.Pool) *ChapterRepository {
	return &ChapterRepository{pool: pool}
}

func (r *ChapterRepository) Create(ctx context.Context, c *model.Chapter) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO chapters (subject_id, name, description) VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.SubjectID, c.Name, c.Description).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ChapterRepository) GetByID(ctx context.Context, id int) (*model.Chapter, error) {
	c := &model.Chapter{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject_id, name, description, created_at, updated_at FROM chapters WHERE id = $1`, id,
	).Scan(&c.ID, &c.SubjectID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves chapters, optionally filtered by subject.
func (r *ChapterRepository) List(ctx context.Context, subjectID *int) ([]model.Chapter, error) {
	query := `SELECT id, subject_id, name, description, created_at, updated_at FROM chapters`
	args := []any{}
	if subjectID != nil {
		query += ` WHERE subject_id = $1`
		args = append(args, *subjectID)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []model.Chapter
	for rows.Next() {
		var c model.Chapter
		if err := rows.Scan(&c.ID, &c.SubjectID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

func (r *ChapterRepository) Update(ctx context.Context, c *model.Chapter) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE chapters SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`,
		c.Name, c.Description, c.ID)
	return err
}

func (r *ChapterRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM chapters WHERE id = $1`, id)
	return err
}
