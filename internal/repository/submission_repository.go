package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

var (
	// ErrActiveAttempt is returned when the student already has an
	// in-progress attempt on the quiz.
	ErrActiveAttempt = errors.New("an attempt is already in progress")
	// ErrMaxAttempts is returned when the student has used up every
	// allowed attempt.
	ErrMaxAttempts = errors.New("maximum attempts reached")
	// ErrNotInProgress is returned when a finalize targets an attempt
	// that another request or the expiry sweep already closed.
	ErrNotInProgress = errors.New("attempt is not in progress")
)

// SubmissionRepository handles quiz attempt and response data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// CreateAttempt inserts an attempt for the student. The attempt counter and
// the allowed-attempts limit are evaluated inside a single guarded insert,
// so two concurrent starts cannot both pass the limit check; the partial
// unique index on in-progress attempts rejects a duplicate active attempt.
func (s *SubmissionRepository) CreateAttempt(ctx context.Context, sub *model.Submission, attemptsAllowed int) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO quiz_submissions (quiz_id, student_id, attempt_number, max_score, ip_address, user_agent)
		 SELECT $1, $2, COUNT(*) + 1, $3, $4, NULLIF($5, '')
		 FROM quiz_submissions
		 WHERE quiz_id = $1 AND student_id = $2
		 HAVING COUNT(*) < $6
		 RETURNING id, attempt_number, started_at, status`,
		sub.QuizID, sub.StudentID, sub.MaxScore, sub.IPAddress, sub.UserAgent, attemptsAllowed,
	).Scan(&sub.ID, &sub.AttemptNumber, &sub.StartedAt, &sub.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrActiveAttempt
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrMaxAttempts
		}
		return err
	}
	return nil
}

// GetByID retrieves an attempt by ID.
func (s *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	sub := &model.Submission{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, quiz_id, student_id, attempt_number, started_at, submitted_at, time_spent_seconds,
		        score, max_score, percentage, status, is_flagged, COALESCE(flagged_reason, ''),
		        COALESCE(ip_address, ''), COALESCE(user_agent, '')
		 FROM quiz_submissions WHERE id = $1`, id,
	).Scan(&sub.ID, &sub.QuizID, &sub.StudentID, &sub.AttemptNumber, &sub.StartedAt, &sub.SubmittedAt,
		&sub.TimeSpentSeconds, &sub.Score, &sub.MaxScore, &sub.Percentage, &sub.Status,
		&sub.IsFlagged, &sub.FlaggedReason, &sub.IPAddress, &sub.UserAgent)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ListByStudent retrieves a student's attempts, optionally narrowed to one
// quiz, newest first.
func (s *SubmissionRepository) ListByStudent(ctx context.Context, studentID int, quizID *uuid.UUID) ([]model.Submission, error) {
	query := `SELECT id, quiz_id, student_id, attempt_number, started_at, submitted_at, time_spent_seconds,
	                 score, max_score, percentage, status, is_flagged, COALESCE(flagged_reason, ''),
	                 COALESCE(ip_address, ''), COALESCE(user_agent, '')
	          FROM quiz_submissions WHERE student_id = $1`
	args := []interface{}{studentID}
	if quizID != nil {
		query += ` AND quiz_id = $2`
		args = append(args, *quizID)
	}
	query += ` ORDER BY started_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var sub model.Submission
		if err := rows.Scan(&sub.ID, &sub.QuizID, &sub.StudentID, &sub.AttemptNumber, &sub.StartedAt, &sub.SubmittedAt,
			&sub.TimeSpentSeconds, &sub.Score, &sub.MaxScore, &sub.Percentage, &sub.Status,
			&sub.IsFlagged, &sub.FlaggedReason, &sub.IPAddress, &sub.UserAgent); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// UpsertResponse records the student's answer to one question. A repeat
// answer to the same question replaces the previous one and bumps the
// per-question attempt counter.
func (s *SubmissionRepository) UpsertResponse(ctx context.Context, resp *model.Response) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO quiz_responses (submission_id, question_id, answer_id, answer_text, is_correct, points_earned, time_spent_seconds)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		 ON CONFLICT (submission_id, question_id) DO UPDATE
		 SET answer_id = EXCLUDED.answer_id,
		     answer_text = EXCLUDED.answer_text,
		     is_correct = EXCLUDED.is_correct,
		     points_earned = EXCLUDED.points_earned,
		     time_spent_seconds = quiz_responses.time_spent_seconds + EXCLUDED.time_spent_seconds,
		     attempt_count = quiz_responses.attempt_count + 1
		 RETURNING id, is_flagged, attempt_count`,
		resp.SubmissionID, resp.QuestionID, resp.AnswerID, resp.AnswerText, resp.IsCorrect, resp.PointsEarned, resp.TimeSpentSeconds,
	).Scan(&resp.ID, &resp.IsFlagged, &resp.AttemptCount)
}

// ListResponses retrieves an attempt's responses in question order.
func (s *SubmissionRepository) ListResponses(ctx context.Context, submissionID uuid.UUID) ([]model.Response, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT r.id, r.submission_id, r.question_id, r.answer_id, COALESCE(r.answer_text, ''),
		        r.is_correct, r.points_earned, r.is_flagged, r.time_spent_seconds, r.attempt_count
		 FROM quiz_responses r
		 JOIN questions q ON q.id = r.question_id
		 WHERE r.submission_id = $1
		 ORDER BY q.order_index ASC`, submissionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var resp model.Response
		if err := rows.Scan(&resp.ID, &resp.SubmissionID, &resp.QuestionID, &resp.AnswerID, &resp.AnswerText,
			&resp.IsCorrect, &resp.PointsEarned, &resp.IsFlagged, &resp.TimeSpentSeconds, &resp.AttemptCount); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// FlagQuestion marks one question of an attempt for review and flags the
// attempt itself. A response row is created when the question has not been
// answered yet.
func (s *SubmissionRepository) FlagQuestion(ctx context.Context, submissionID, questionID uuid.UUID, reason string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO quiz_responses (submission_id, question_id, is_flagged, attempt_count)
		 VALUES ($1, $2, TRUE, 0)
		 ON CONFLICT (submission_id, question_id) DO UPDATE SET is_flagged = TRUE`,
		submissionID, questionID,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE quiz_submissions SET is_flagged = TRUE, flagged_reason = NULLIF($1, '') WHERE id = $2`,
		reason, submissionID,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Finalize writes the outcome of a finished attempt. Only an in-progress
// row can be finalized; a row already closed by a concurrent submit or the
// expiry sweep stays untouched.
func (s *SubmissionRepository) Finalize(ctx context.Context, sub *model.Submission) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE quiz_submissions
		 SET status = $1, submitted_at = $2, time_spent_seconds = $3, score = $4, percentage = $5
		 WHERE id = $6 AND status = 'in_progress'`,
		sub.Status, sub.SubmittedAt, sub.TimeSpentSeconds, sub.Score, sub.Percentage, sub.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotInProgress
	}
	return nil
}

// ExpireOverdue marks every in-progress attempt whose deadline has passed
// as expired, scoring what was auto-gradable. The deadline is the earlier
// of started_at plus the quiz time limit and the quiz end time. Returns
// the number of attempts expired.
func (s *SubmissionRepository) ExpireOverdue(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE quiz_submissions s
		 SET status = 'expired', submitted_at = NOW(),
		     time_spent_seconds = EXTRACT(EPOCH FROM NOW() - s.started_at)::INT,
		     score = (SELECT COALESCE(SUM(r.points_earned), 0)
		              FROM quiz_responses r
		              WHERE r.submission_id = s.id AND r.is_correct IS NOT NULL),
		     percentage = CASE WHEN s.max_score > 0 THEN ROUND(
		         (SELECT COALESCE(SUM(r.points_earned), 0)
		          FROM quiz_responses r
		          WHERE r.submission_id = s.id AND r.is_correct IS NOT NULL) / s.max_score * 100, 2)
		       ELSE 0 END
		 FROM quizzes q
		 WHERE q.id = s.quiz_id AND s.status = 'in_progress'
		   AND ((q.time_limit_minutes IS NOT NULL AND s.started_at + make_interval(mins => q.time_limit_minutes) < NOW())
		     OR (q.end_time IS NOT NULL AND q.end_time < NOW()))`,
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// QuizResultRow is one attempt in a lecturer's results listing.
type QuizResultRow struct {
	Submission  model.Submission `json:"submission"`
	StudentName string           `json:"student_name"`
	StudentCode string           `json:"student_code"`
}

// ListResultsPaginated retrieves the finished attempts of a quiz joined
// with student identity, best percentage first.
func (s *SubmissionRepository) ListResultsPaginated(ctx context.Context, quizID uuid.UUID, limit, offset int) ([]QuizResultRow, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_submissions WHERE quiz_id = $1 AND status IN ('submitted', 'graded', 'expired')`,
		quizID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT sub.id, sub.quiz_id, sub.student_id, sub.attempt_number, sub.started_at, sub.submitted_at,
		        sub.time_spent_seconds, sub.score, sub.max_score, sub.percentage, sub.status,
		        sub.is_flagged, COALESCE(sub.flagged_reason, ''), st.full_name, st.student_code
		 FROM quiz_submissions sub
		 JOIN students st ON st.id = sub.student_id
		 WHERE sub.quiz_id = $1 AND sub.status IN ('submitted', 'graded', 'expired')
		 ORDER BY sub.percentage DESC NULLS LAST, sub.submitted_at ASC
		 LIMIT $2 OFFSET $3`,
		quizID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []QuizResultRow
	for rows.Next() {
		var row QuizResultRow
		if err := rows.Scan(&row.Submission.ID, &row.Submission.QuizID, &row.Submission.StudentID,
			&row.Submission.AttemptNumber, &row.Submission.StartedAt, &row.Submission.SubmittedAt,
			&row.Submission.TimeSpentSeconds, &row.Submission.Score, &row.Submission.MaxScore,
			&row.Submission.Percentage, &row.Submission.Status, &row.Submission.IsFlagged,
			&row.Submission.FlaggedReason, &row.StudentName, &row.StudentCode); err != nil {
			return nil, 0, err
		}
		results = append(results, row)
	}
	return results, total, rows.Err()
}

// QuizAggregate holds the summary statistics over a quiz's finished attempts.
type QuizAggregate struct {
	TotalAttempts     int      `json:"total_attempts"`
	AverageScore      *float64 `json:"average_score"`
	AveragePercentage *float64 `json:"average_percentage"`
	HighestPercentage *float64 `json:"highest_percentage"`
	LowestPercentage  *float64 `json:"lowest_percentage"`
	PassedCount       *int     `json:"passed_count"`
}

// GetAggregate computes summary statistics over finished attempts. The
// passed count is null when the quiz has no passing score configured.
func (s *SubmissionRepository) GetAggregate(ctx context.Context, quizID uuid.UUID) (*QuizAggregate, error) {
	agg := &QuizAggregate{}
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(sub.id),
		        ROUND(AVG(sub.score), 2),
		        ROUND(AVG(sub.percentage), 2),
		        MAX(sub.percentage),
		        MIN(sub.percentage),
		        CASE WHEN q.passing_score IS NULL THEN NULL
		             ELSE COUNT(sub.id) FILTER (WHERE sub.percentage >= q.passing_score) END
		 FROM quizzes q
		 LEFT JOIN quiz_submissions sub
		        ON sub.quiz_id = q.id AND sub.status IN ('submitted', 'graded', 'expired')
		 WHERE q.id = $1
		 GROUP BY q.passing_score`,
		quizID,
	).Scan(&agg.TotalAttempts, &agg.AverageScore, &agg.AveragePercentage,
		&agg.HighestPercentage, &agg.LowestPercentage, &agg.PassedCount)
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// QuestionStat is the per-question correctness breakdown of a quiz.
type QuestionStat struct {
	QuestionID   uuid.UUID          `json:"question_id"`
	QuestionText string             `json:"question_text"`
	QuestionType model.QuestionType `json:"question_type"`
	Answered     int                `json:"answered"`
	Correct      int                `json:"correct"`
	CorrectRatio float64            `json:"correct_ratio"`
	Difficulty   string             `json:"difficulty"`
}

// GetQuestionStats computes, per question, how many finished attempts
// answered it and how many got it right. Only auto-graded responses carry a
// correctness verdict; the ratio is over those.
func (s *SubmissionRepository) GetQuestionStats(ctx context.Context, quizID uuid.UUID) ([]QuestionStat, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT q.id, q.question_text, q.question_type,
		        COUNT(r.id) FILTER (WHERE r.attempt_count > 0),
		        COUNT(r.id) FILTER (WHERE r.is_correct = TRUE)
		 FROM questions q
		 LEFT JOIN quiz_responses r
		        ON r.question_id = q.id
		       AND r.submission_id IN (
		             SELECT id FROM quiz_submissions
		             WHERE quiz_id = $1 AND status IN ('submitted', 'graded', 'expired'))
		 WHERE q.quiz_id = $1
		 GROUP BY q.id, q.question_text, q.question_type, q.order_index
		 ORDER BY q.order_index ASC`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []QuestionStat
	for rows.Next() {
		var st QuestionStat
		if err := rows.Scan(&st.QuestionID, &st.QuestionText, &st.QuestionType, &st.Answered, &st.Correct); err != nil {
			return nil, err
		}
		if st.Answered > 0 {
			st.CorrectRatio = float64(st.Correct) / float64(st.Answered)
		}
		st.Difficulty = model.DifficultyLabel(st.CorrectRatio)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
