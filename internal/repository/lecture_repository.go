package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// LectureRepository handles lecture data access.
type LectureRepository struct {
	pool *pgxpool.Pool
}

// NewLectureRepository creates a new LectureRepository.
func NewLectureRepository(pool *pgxpool.Pool) *LectureRepository {
	return &LectureRepository{pool: pool}
}

// GetByID retrieves a lecture by ID.
func (r *LectureRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Lecture, error) {
	l := &model.Lecture{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, chapter_id, title, COALESCE(content, ''), COALESCE(video_url, ''),
		        duration_minutes, order_index, is_published, created_at, updated_at
		 FROM lectures WHERE id = $1`, id,
	).Scan(&l.ID, &l.ChapterID, &l.Title, &l.Content, &l.VideoURL,
		&l.DurationMinutes, &l.OrderIndex, &l.IsPublished, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Create inserts a lecture. New lectures start unpublished.
func (r *LectureRepository) Create(ctx context.Context, l *model.Lecture) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lectures (chapter_id, title, content, video_url, duration_minutes, order_index)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
		 RETURNING id, is_published, created_at, updated_at`,
		l.ChapterID, l.Title, l.Content, l.VideoURL, l.DurationMinutes, l.OrderIndex,
	).Scan(&l.ID, &l.IsPublished, &l.CreatedAt, &l.UpdatedAt)
}

// Update applies changes to a lecture.
func (r *LectureRepository) Update(ctx context.Context, l *model.Lecture) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE lectures
		 SET title = $1, content = NULLIF($2, ''), video_url = NULLIF($3, ''),
		     duration_minutes = $4, order_index = $5, is_published = $6, updated_at = NOW()
		 WHERE id = $7`,
		l.Title, l.Content, l.VideoURL, l.DurationMinutes, l.OrderIndex, l.IsPublished, l.ID,
	)
	return err
}

// Delete removes a lecture.
func (r *LectureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	return err
}

// ListByChapter retrieves a chapter's lectures in display order. When
// publishedOnly is set, draft lectures are filtered out.
func (r *LectureRepository) ListByChapter(ctx context.Context, chapterID uuid.UUID, publishedOnly bool) ([]model.Lecture, error) {
	query := `SELECT id, chapter_id, title, COALESCE(content, ''), COALESCE(video_url, ''),
	                 duration_minutes, order_index, is_published, created_at, updated_at
	          FROM lectures WHERE chapter_id = $1`
	if publishedOnly {
		query += ` AND is_published = TRUE`
	}
	query += ` ORDER BY order_index ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lectures []model.Lecture
	for rows.Next() {
		var l model.Lecture
		if err := rows.Scan(&l.ID, &l.ChapterID, &l.Title, &l.Content, &l.VideoURL,
			&l.DurationMinutes, &l.OrderIndex, &l.IsPublished, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lectures = append(lectures, l)
	}
	return lectures, rows.Err()
}

// VisibleToStudent reports whether a published lecture reaches the student
// through one of their active enrollments.
func (r *LectureRepository) VisibleToStudent(ctx context.Context, lectureID uuid.UUID, studentID int) (bool, error) {
	var visible bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1
			FROM lectures l
			JOIN chapters c ON c.id = l.chapter_id
			JOIN course_sections cs ON cs.subject_id = c.subject_id
			JOIN enrollments e ON e.section_id = cs.id
			WHERE l.id = $1 AND l.is_published = TRUE
			  AND e.student_id = $2 AND e.status = 'active'
		 )`, lectureID, studentID,
	).Scan(&visible)
	return visible, err
}

// CountPublishedBySection counts the published lectures reachable from a
// course section through its subject's chapters.
func (r *LectureRepository) CountPublishedBySection(ctx context.Context, sectionID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM lectures l
		 JOIN chapters c ON c.id = l.chapter_id
		 JOIN course_sections cs ON cs.subject_id = c.subject_id
		 WHERE cs.id = $1 AND l.is_published = TRUE`, sectionID,
	).Scan(&count)
	return count, err
}
