package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// ChapterRepository handles chapter data access.
type ChapterRepository struct {
	pool *pgxpool.Pool
}

// NewChapterRepository creates a new ChapterRepository.
func NewChapterRepository(pool *pgxpool.Pool) *ChapterRepository {
	return &ChapterRepository{pool: pool}
}

// GetByID retrieves a chapter by ID.
func (r *ChapterRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Chapter, error) {
	c := &model.Chapter{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject_id, title, COALESCE(description, ''), order_index, created_at, updated_at
		 FROM chapters WHERE id = $1`, id,
	).Scan(&c.ID, &c.SubjectID, &c.Title, &c.Description, &c.OrderIndex, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a chapter.
func (r *ChapterRepository) Create(ctx context.Context, c *model.Chapter) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO chapters (subject_id, title, description, order_index)
		 VALUES ($1, $2, NULLIF($3, ''), $4)
		 RETURNING id, created_at, updated_at`,
		c.SubjectID, c.Title, c.Description, c.OrderIndex,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update applies changes to a chapter.
func (r *ChapterRepository) Update(ctx context.Context, c *model.Chapter) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE chapters
		 SET title = $1, description = NULLIF($2, ''), order_index = $3, updated_at = NOW()
		 WHERE id = $4`,
		c.Title, c.Description, c.OrderIndex, c.ID,
	)
	return err
}

// Delete removes a chapter. Lectures cascade.
func (r *ChapterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM chapters WHERE id = $1`, id)
	return err
}

// ListBySubject retrieves a subject's chapters in display order.
func (r *ChapterRepository) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]model.Chapter, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, subject_id, title, COALESCE(description, ''), order_index, created_at, updated_at
		 FROM chapters WHERE subject_id = $1
		 ORDER BY order_index ASC, created_at ASC`, subjectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []model.Chapter
	for rows.Next() {
		var c model.Chapter
		if err := rows.Scan(&c.ID, &c.SubjectID, &c.Title, &c.Description, &c.OrderIndex, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}
