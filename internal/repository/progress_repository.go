package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// ProgressRepository handles lecture and section progress data access.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// GetLectureProgress retrieves one student's progress on one lecture.
func (r *ProgressRepository) GetLectureProgress(ctx context.Context, studentID int, lectureID uuid.UUID) (*model.LectureProgress, error) {
	p := &model.LectureProgress{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, lecture_id, time_spent_seconds, scrolled_to_bottom, is_completed, completed_at, updated_at
		 FROM lecture_progress WHERE student_id = $1 AND lecture_id = $2`,
		studentID, lectureID,
	).Scan(&p.ID, &p.StudentID, &p.LectureID, &p.TimeSpentSeconds, &p.ScrolledToBottom, &p.IsCompleted, &p.CompletedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpsertLectureProgress folds a progress report into the stored row. Time
// spent accumulates, the scroll flag latches, and completion is evaluated
// inside the statement so it never regresses.
func (r *ProgressRepository) UpsertLectureProgress(ctx context.Context, studentID int, lectureID uuid.UUID, timeSpentSeconds int, scrolledToBottom bool, minReadSeconds int) (*model.LectureProgress, error) {
	p := &model.LectureProgress{StudentID: studentID, LectureID: lectureID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO lecture_progress (student_id, lecture_id, time_spent_seconds, scrolled_to_bottom, is_completed, completed_at)
		 VALUES ($1, $2, $3, $4, $3 >= $5 AND $4, CASE WHEN $3 >= $5 AND $4 THEN NOW() END)
		 ON CONFLICT (student_id, lecture_id) DO UPDATE
		 SET time_spent_seconds = lecture_progress.time_spent_seconds + EXCLUDED.time_spent_seconds,
		     scrolled_to_bottom = lecture_progress.scrolled_to_bottom OR EXCLUDED.scrolled_to_bottom,
		     is_completed = lecture_progress.is_completed
		                    OR (lecture_progress.time_spent_seconds + EXCLUDED.time_spent_seconds >= $5
		                        AND (lecture_progress.scrolled_to_bottom OR EXCLUDED.scrolled_to_bottom)),
		     completed_at = COALESCE(lecture_progress.completed_at,
		                    CASE WHEN lecture_progress.time_spent_seconds + EXCLUDED.time_spent_seconds >= $5
		                          AND (lecture_progress.scrolled_to_bottom OR EXCLUDED.scrolled_to_bottom)
		                         THEN NOW() END),
		     updated_at = NOW()
		 RETURNING id, time_spent_seconds, scrolled_to_bottom, is_completed, completed_at, updated_at`,
		studentID, lectureID, timeSpentSeconds, scrolledToBottom, minReadSeconds,
	).Scan(&p.ID, &p.TimeSpentSeconds, &p.ScrolledToBottom, &p.IsCompleted, &p.CompletedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RecomputeSectionProgress rebuilds the per-section rollup for a student
// from their completed lectures and the section's published lecture count.
func (r *ProgressRepository) RecomputeSectionProgress(ctx context.Context, studentID int, sectionID uuid.UUID) (*model.SectionProgress, error) {
	p := &model.SectionProgress{StudentID: studentID, SectionID: sectionID}
	err := r.pool.QueryRow(ctx,
		`WITH section_lectures AS (
			SELECT l.id
			FROM lectures l
			JOIN chapters c ON c.id = l.chapter_id
			JOIN course_sections cs ON cs.subject_id = c.subject_id
			WHERE cs.id = $2 AND l.is_published = TRUE
		 ), counts AS (
			SELECT (SELECT COUNT(*) FROM section_lectures) AS total,
			       (SELECT COUNT(*) FROM lecture_progress lp
			        WHERE lp.student_id = $1 AND lp.is_completed = TRUE
			          AND lp.lecture_id IN (SELECT id FROM section_lectures)) AS completed
		 )
		 INSERT INTO section_progress (student_id, section_id, lectures_completed, total_lectures, percentage, last_activity_at)
		 SELECT $1, $2, completed, total,
		        CASE WHEN total = 0 THEN 0 ELSE ROUND(completed::NUMERIC / total * 100, 2) END,
		        NOW()
		 FROM counts
		 ON CONFLICT (student_id, section_id) DO UPDATE
		 SET lectures_completed = EXCLUDED.lectures_completed,
		     total_lectures = EXCLUDED.total_lectures,
		     percentage = EXCLUDED.percentage,
		     last_activity_at = NOW()
		 RETURNING id, lectures_completed, total_lectures, percentage, last_activity_at`,
		studentID, sectionID,
	).Scan(&p.ID, &p.LecturesCompleted, &p.TotalLectures, &p.Percentage, &p.LastActivityAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetSectionProgress retrieves the stored rollup for one student and section.
func (r *ProgressRepository) GetSectionProgress(ctx context.Context, studentID int, sectionID uuid.UUID) (*model.SectionProgress, error) {
	p := &model.SectionProgress{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, section_id, lectures_completed, total_lectures, percentage, last_activity_at
		 FROM section_progress WHERE student_id = $1 AND section_id = $2`,
		studentID, sectionID,
	).Scan(&p.ID, &p.StudentID, &p.SectionID, &p.LecturesCompleted, &p.TotalLectures, &p.Percentage, &p.LastActivityAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListSectionProgress retrieves the rollups of every student in a section,
// for the lecturer's overview.
func (r *ProgressRepository) ListSectionProgress(ctx context.Context, sectionID uuid.UUID) ([]model.SectionProgress, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sp.id, sp.student_id, sp.section_id, sp.lectures_completed, sp.total_lectures, sp.percentage, sp.last_activity_at
		 FROM section_progress sp
		 WHERE sp.section_id = $1
		 ORDER BY sp.percentage DESC`, sectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []model.SectionProgress
	for rows.Next() {
		var p model.SectionProgress
		if err := rows.Scan(&p.ID, &p.StudentID, &p.SectionID, &p.LecturesCompleted, &p.TotalLectures, &p.Percentage, &p.LastActivityAt); err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}
