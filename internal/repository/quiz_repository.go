package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// QuizRepository handles quiz data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

const quizColumns = `id, title, COALESCE(instructions, ''), subject_id, section_id, lecturer_id,
	total_points, time_limit_minutes, attempts_allowed, shuffle_questions, shuffle_answers,
	show_results, show_correct_answers, start_time, end_time, passing_score, status, created_at, updated_at`

func scanQuiz(row interface{ Scan(...interface{}) error }) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := row.Scan(&q.ID, &q.Title, &q.Instructions, &q.SubjectID, &q.SectionID, &q.LecturerID,
		&q.TotalPoints, &q.TimeLimitMinutes, &q.AttemptsAllowed, &q.ShuffleQuestions, &q.ShuffleAnswers,
		&q.ShowResults, &q.ShowCorrectAnswers, &q.StartTime, &q.EndTime, &q.PassingScore, &q.Status, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetByID retrieves a quiz by ID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id))
}

// Create inserts a quiz. New quizzes always start as drafts.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (title, instructions, subject_id, section_id, lecturer_id,
		                      time_limit_minutes, attempts_allowed, shuffle_questions, shuffle_answers,
		                      show_results, show_correct_answers, start_time, end_time, passing_score)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, total_points, status, created_at, updated_at`,
		q.Title, q.Instructions, q.SubjectID, q.SectionID, q.LecturerID,
		q.TimeLimitMinutes, q.AttemptsAllowed, q.ShuffleQuestions, q.ShuffleAnswers,
		q.ShowResults, q.ShowCorrectAnswers, q.StartTime, q.EndTime, q.PassingScore,
	).Scan(&q.ID, &q.TotalPoints, &q.Status, &q.CreatedAt, &q.UpdatedAt)
}

// Update applies changes to a quiz's configuration.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes
		 SET title = $1, instructions = NULLIF($2, ''), section_id = $3, time_limit_minutes = $4,
		     attempts_allowed = $5, shuffle_questions = $6, shuffle_answers = $7,
		     show_results = $8, show_correct_answers = $9, start_time = $10, end_time = $11,
		     passing_score = $12, updated_at = NOW()
		 WHERE id = $13`,
		q.Title, q.Instructions, q.SectionID, q.TimeLimitMinutes,
		q.AttemptsAllowed, q.ShuffleQuestions, q.ShuffleAnswers,
		q.ShowResults, q.ShowCorrectAnswers, q.StartTime, q.EndTime,
		q.PassingScore, q.ID,
	)
	return err
}

// UpdateStatus moves the quiz to a new publication state.
func (r *QuizRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuizStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET status = $1, updated_at = NOW() WHERE id = $2`, status, id,
	)
	return err
}

// Delete removes a quiz. Questions, answers and submissions cascade.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}

// CountQuestions returns the number of questions attached to a quiz.
func (r *QuizRepository) CountQuestions(ctx context.Context, quizID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE quiz_id = $1`, quizID,
	).Scan(&count)
	return count, err
}

// HasSubmissions reports whether any attempt exists for the quiz.
func (r *QuizRepository) HasSubmissions(ctx context.Context, quizID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM quiz_submissions WHERE quiz_id = $1)`, quizID,
	).Scan(&exists)
	return exists, err
}

// ListPaginated retrieves quizzes with pagination, filtered by lecturer
// ownership and/or status when given.
func (r *QuizRepository) ListPaginated(ctx context.Context, lecturerID *int, status *model.QuizStatus, limit, offset int) ([]model.Quiz, int, error) {
	where := ``
	args := []interface{}{}
	if lecturerID != nil {
		args = append(args, *lecturerID)
		where = ` WHERE lecturer_id = $1`
	}
	if status != nil {
		args = append(args, *status)
		if where == "" {
			where = ` WHERE status = $1`
		} else {
			where += ` AND status = $2`
		}
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quizzes`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + quizColumns + ` FROM quizzes` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, total, rows.Err()
}

// ListPublished retrieves every published quiz, for cache prewarming.
func (r *QuizRepository) ListPublished(ctx context.Context) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE status = 'published'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, rows.Err()
}

// ListForStudent retrieves the published quizzes visible to a student:
// those scoped to a section the student is actively enrolled in, plus
// unscoped quizzes on the subjects of those sections.
func (r *QuizRepository) ListForStudent(ctx context.Context, studentID int) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT q.id, q.title, COALESCE(q.instructions, ''), q.subject_id, q.section_id, q.lecturer_id,
		        q.total_points, q.time_limit_minutes, q.attempts_allowed, q.shuffle_questions, q.shuffle_answers,
		        q.show_results, q.show_correct_answers, q.start_time, q.end_time, q.passing_score, q.status, q.created_at, q.updated_at
		 FROM quizzes q
		 JOIN course_sections cs ON (cs.id = q.section_id OR (q.section_id IS NULL AND cs.subject_id = q.subject_id))
		 JOIN enrollments e ON e.section_id = cs.id
		 WHERE e.student_id = $1 AND e.status = 'active' AND q.status = 'published'
		 ORDER BY q.created_at DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, rows.Err()
}

// VisibleToStudent reports whether the quiz reaches the student through one
// of their active enrollments.
func (r *QuizRepository) VisibleToStudent(ctx context.Context, quizID uuid.UUID, studentID int) (bool, error) {
	var visible bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1
			FROM quizzes q
			JOIN course_sections cs ON (cs.id = q.section_id OR (q.section_id IS NULL AND cs.subject_id = q.subject_id))
			JOIN enrollments e ON e.section_id = cs.id
			WHERE q.id = $1 AND e.student_id = $2 AND e.status = 'active'
		 )`, quizID, studentID,
	).Scan(&visible)
	return visible, err
}

// Close flips the quiz to closed and force-submits every in-progress
// attempt in the same transaction so no attempt can land in between.
func (r *QuizRepository) Close(ctx context.Context, id uuid.UUID) (forced int, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE quiz_submissions s
		 SET status = 'submitted', submitted_at = NOW(),
		     time_spent_seconds = EXTRACT(EPOCH FROM NOW() - s.started_at)::INT,
		     score = (SELECT COALESCE(SUM(r.points_earned), 0)
		              FROM quiz_responses r
		              WHERE r.submission_id = s.id AND r.is_correct IS NOT NULL),
		     percentage = CASE WHEN s.max_score > 0 THEN ROUND(
		         (SELECT COALESCE(SUM(r.points_earned), 0)
		          FROM quiz_responses r
		          WHERE r.submission_id = s.id AND r.is_correct IS NOT NULL) / s.max_score * 100, 2)
		       ELSE 0 END
		 WHERE s.quiz_id = $1 AND s.status = 'in_progress'`, id,
	)
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE quizzes SET status = 'closed', updated_at = NOW() WHERE id = $1`, id,
	); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
