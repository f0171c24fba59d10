package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// SubjectRepository handles subject data access.
type SubjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

// GetByID retrieves a subject by ID.
func (r *SubjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	s := &model.Subject{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject_code, subject_name, COALESCE(description, ''), credits, lecturer_id, created_at, updated_at
		 FROM subjects WHERE id = $1`, id,
	).Scan(&s.ID, &s.SubjectCode, &s.SubjectName, &s.Description, &s.Credits, &s.LecturerID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subjects (subject_code, subject_name, description, credits, lecturer_id)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		 RETURNING id, created_at, updated_at`,
		s.SubjectCode, s.SubjectName, s.Description, s.Credits, s.LecturerID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update applies changes to a subject.
func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE subjects
		 SET subject_name = $1, description = NULLIF($2, ''), credits = $3, updated_at = NOW()
		 WHERE id = $4`,
		s.SubjectName, s.Description, s.Credits, s.ID,
	)
	return err
}

// Delete removes a subject. Chapters, lectures and quizzes cascade.
func (r *SubjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	return err
}

// ListPaginated retrieves subjects with pagination and an optional
// lecturer-ownership filter.
func (r *SubjectRepository) ListPaginated(ctx context.Context, lecturerID *int, limit, offset int) ([]model.Subject, int, error) {
	countQuery := `SELECT COUNT(*) FROM subjects`
	var countArgs []interface{}
	if lecturerID != nil {
		countQuery += ` WHERE lecturer_id = $1`
		countArgs = append(countArgs, *lecturerID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, subject_code, subject_name, COALESCE(description, ''), credits, lecturer_id, created_at, updated_at
		 FROM subjects`
	args := []interface{}{}
	if lecturerID != nil {
		query += ` WHERE lecturer_id = $1 ORDER BY subject_code ASC LIMIT $2 OFFSET $3`
		args = append(args, *lecturerID, limit, offset)
	} else {
		query += ` ORDER BY subject_code ASC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.SubjectCode, &s.SubjectName, &s.Description, &s.Credits, &s.LecturerID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		subjects = append(subjects, s)
	}
	return subjects, total, rows.Err()
}
