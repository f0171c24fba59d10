package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// MaterialRepository handles uploaded course material metadata.
type MaterialRepository struct {
	pool *pgxpool.Pool
}

// NewMaterialRepository creates a new MaterialRepository.
func NewMaterialRepository(pool *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{pool: pool}
}

// GetByID retrieves a material by ID.
func (r *MaterialRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	m := &model.Material{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, section_id, lecture_id, title, COALESCE(description, ''), file_path, file_type, file_size, uploaded_by, created_at
		 FROM materials WHERE id = $1`, id,
	).Scan(&m.ID, &m.SectionID, &m.LectureID, &m.Title, &m.Description, &m.FilePath, &m.FileType, &m.FileSize, &m.UploadedBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a material record.
func (r *MaterialRepository) Create(ctx context.Context, m *model.Material) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO materials (section_id, lecture_id, title, description, file_path, file_type, file_size, uploaded_by)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		 RETURNING id, created_at`,
		m.SectionID, m.LectureID, m.Title, m.Description, m.FilePath, m.FileType, m.FileSize, m.UploadedBy,
	).Scan(&m.ID, &m.CreatedAt)
}

// Delete removes a material record and returns its file path so the caller
// can unlink the file on disk.
func (r *MaterialRepository) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	var filePath string
	err := r.pool.QueryRow(ctx,
		`DELETE FROM materials WHERE id = $1 RETURNING file_path`, id,
	).Scan(&filePath)
	return filePath, err
}

// ListBySection retrieves the materials of a course section, newest first.
func (r *MaterialRepository) ListBySection(ctx context.Context, sectionID uuid.UUID, limit, offset int) ([]model.Material, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM materials WHERE section_id = $1`, sectionID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, section_id, lecture_id, title, COALESCE(description, ''), file_path, file_type, file_size, uploaded_by, created_at
		 FROM materials WHERE section_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		sectionID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var materials []model.Material
	for rows.Next() {
		var m model.Material
		if err := rows.Scan(&m.ID, &m.SectionID, &m.LectureID, &m.Title, &m.Description, &m.FilePath, &m.FileType, &m.FileSize, &m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		materials = append(materials, m)
	}
	return materials, total, rows.Err()
}
