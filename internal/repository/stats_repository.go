package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// StatsRepository handles dashboard data access.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the admin dashboard.
func (r *StatsRepository) GetSummaryCounts(ctx context.Context) (totalStudents, totalLecturers, totalSubjects, totalQuizzes int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM lecturers),
			(SELECT COUNT(*) FROM subjects),
			(SELECT COUNT(*) FROM quizzes)`,
	).Scan(&totalStudents, &totalLecturers, &totalSubjects, &totalQuizzes)
	return
}

// GetQuizStatusCounts retrieves the distribution of quizzes by status.
func (r *StatsRepository) GetQuizStatusCounts(ctx context.Context) (map[model.QuizStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM quizzes GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.QuizStatus]int)
	for rows.Next() {
		var status model.QuizStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// LecturerSummary holds the per-lecturer dashboard counters.
type LecturerSummary struct {
	Subjects        int `json:"subjects"`
	Sections        int `json:"sections"`
	Quizzes         int `json:"quizzes"`
	StudentsTaught  int `json:"students_taught"`
	PendingAttempts int `json:"pending_attempts"`
}

// GetLecturerSummary retrieves the counters for one lecturer's dashboard.
// Pending attempts are finished submissions on the lecturer's quizzes that
// still carry ungraded manual responses.
func (r *StatsRepository) GetLecturerSummary(ctx context.Context, lecturerID int) (*LecturerSummary, error) {
	s := &LecturerSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM subjects WHERE lecturer_id = $1),
			(SELECT COUNT(*) FROM course_sections WHERE lecturer_id = $1),
			(SELECT COUNT(*) FROM quizzes WHERE lecturer_id = $1),
			(SELECT COUNT(DISTINCT e.student_id)
			 FROM enrollments e
			 JOIN course_sections cs ON cs.id = e.section_id
			 WHERE cs.lecturer_id = $1 AND e.status = 'active'),
			(SELECT COUNT(DISTINCT sub.id)
			 FROM quiz_submissions sub
			 JOIN quizzes q ON q.id = sub.quiz_id
			 JOIN quiz_responses r ON r.submission_id = sub.id
			 WHERE q.lecturer_id = $1 AND sub.status = 'submitted' AND r.is_correct IS NULL AND r.attempt_count > 0)`,
		lecturerID,
	).Scan(&s.Subjects, &s.Sections, &s.Quizzes, &s.StudentsTaught, &s.PendingAttempts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpcomingQuiz represents minimal data for quizzes that are published with a
// future start time.
type UpcomingQuiz struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	SubjectID uuid.UUID  `json:"subject_id"`
	StartTime *time.Time `json:"start_time"`
}

// GetUpcomingQuizzes retrieves the next N published quizzes that have not
// opened yet.
func (r *StatsRepository) GetUpcomingQuizzes(ctx context.Context, limit int) ([]UpcomingQuiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, subject_id, start_time
		 FROM quizzes
		 WHERE status = $1 AND start_time > NOW()
		 ORDER BY start_time ASC LIMIT $2`,
		model.QuizStatusPublished, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []UpcomingQuiz
	for rows.Next() {
		var q UpcomingQuiz
		if err := rows.Scan(&q.ID, &q.Title, &q.SubjectID, &q.StartTime); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// StudentSummary holds the per-student dashboard counters.
type StudentSummary struct {
	EnrolledSections  int      `json:"enrolled_sections"`
	CompletedLectures int      `json:"completed_lectures"`
	FinishedAttempts  int      `json:"finished_attempts"`
	AveragePercentage *float64 `json:"average_percentage"`
}

// GetStudentSummary retrieves the counters for one student's dashboard.
func (r *StatsRepository) GetStudentSummary(ctx context.Context, studentID int) (*StudentSummary, error) {
	s := &StudentSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM enrollments WHERE student_id = $1 AND status = 'active'),
			(SELECT COUNT(*) FROM lecture_progress WHERE student_id = $1 AND is_completed = TRUE),
			(SELECT COUNT(*) FROM quiz_submissions WHERE student_id = $1 AND status IN ('submitted', 'graded', 'expired')),
			(SELECT ROUND(AVG(percentage), 2) FROM quiz_submissions
			 WHERE student_id = $1 AND status IN ('submitted', 'graded', 'expired'))`,
		studentID,
	).Scan(&s.EnrolledSections, &s.CompletedLectures, &s.FinishedAttempts, &s.AveragePercentage)
	if err != nil {
		return nil, err
	}
	return s, nil
}
