package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// QuestionRepository handles question and answer-option data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// GetByID retrieves a question with its answer options.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, question_text, question_type, points, order_index, is_required,
		        time_limit_seconds, COALESCE(explanation, ''), created_at, updated_at
		 FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.QuizID, &q.QuestionText, &q.QuestionType, &q.Points, &q.OrderIndex, &q.IsRequired,
		&q.TimeLimitSeconds, &q.Explanation, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}

	answers, err := r.listAnswers(ctx, []uuid.UUID{q.ID})
	if err != nil {
		return nil, err
	}
	q.Answers = answers[q.ID]
	return q, nil
}

// ListByQuiz retrieves a quiz's questions in display order, each with its
// answer options.
func (r *QuestionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, question_text, question_type, points, order_index, is_required,
		        time_limit_seconds, COALESCE(explanation, ''), created_at, updated_at
		 FROM questions WHERE quiz_id = $1
		 ORDER BY order_index ASC, created_at ASC`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	var ids []uuid.UUID
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.QuestionText, &q.QuestionType, &q.Points, &q.OrderIndex, &q.IsRequired,
			&q.TimeLimitSeconds, &q.Explanation, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
		ids = append(ids, q.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return questions, nil
	}

	answers, err := r.listAnswers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Answers = answers[questions[i].ID]
	}
	return questions, nil
}

func (r *QuestionRepository) listAnswers(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID][]model.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_id, answer_text, is_correct, order_index, COALESCE(explanation, '')
		 FROM answers WHERE question_id = ANY($1)
		 ORDER BY order_index ASC`, questionIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byQuestion := make(map[uuid.UUID][]model.Answer)
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.AnswerText, &a.IsCorrect, &a.OrderIndex, &a.Explanation); err != nil {
			return nil, err
		}
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}
	return byQuestion, rows.Err()
}

// MaxOrderIndex returns the highest order_index among a quiz's questions,
// or -1 when the quiz has none.
func (r *QuestionRepository) MaxOrderIndex(ctx context.Context, quizID uuid.UUID) (int, error) {
	var max int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(order_index), -1) FROM questions WHERE quiz_id = $1`, quizID,
	).Scan(&max)
	return max, err
}

// CreateWithAnswers inserts a question and its answer options, then
// refreshes the quiz's total_points, all in one transaction.
func (r *QuestionRepository) CreateWithAnswers(ctx context.Context, q *model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO questions (quiz_id, question_text, question_type, points, order_index, is_required, time_limit_seconds, explanation)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
		 RETURNING id, created_at, updated_at`,
		q.QuizID, q.QuestionText, q.QuestionType, q.Points, q.OrderIndex, q.IsRequired, q.TimeLimitSeconds, q.Explanation,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertAnswersTx(ctx, tx, q); err != nil {
		return err
	}
	if err := recomputeTotalPointsTx(ctx, tx, q.QuizID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateWithAnswers applies changes to a question. When replaceAnswers is
// set, the existing answer options are dropped and q.Answers reinserted.
// The quiz's total_points is refreshed in the same transaction.
func (r *QuestionRepository) UpdateWithAnswers(ctx context.Context, q *model.Question, replaceAnswers bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE questions
		 SET question_text = $1, points = $2, order_index = $3, is_required = $4,
		     time_limit_seconds = $5, explanation = NULLIF($6, ''), updated_at = NOW()
		 WHERE id = $7`,
		q.QuestionText, q.Points, q.OrderIndex, q.IsRequired, q.TimeLimitSeconds, q.Explanation, q.ID,
	)
	if err != nil {
		return err
	}

	if replaceAnswers {
		if _, err := tx.Exec(ctx, `DELETE FROM answers WHERE question_id = $1`, q.ID); err != nil {
			return err
		}
		if err := insertAnswersTx(ctx, tx, q); err != nil {
			return err
		}
	}
	if err := recomputeTotalPointsTx(ctx, tx, q.QuizID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes a question and refreshes the quiz's total_points.
func (r *QuestionRepository) Delete(ctx context.Context, id, quizID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM questions WHERE id = $1 AND quiz_id = $2`, id, quizID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	if err := recomputeTotalPointsTx(ctx, tx, quizID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertAnswersTx(ctx context.Context, tx pgx.Tx, q *model.Question) error {
	for i := range q.Answers {
		a := &q.Answers[i]
		err := tx.QueryRow(ctx,
			`INSERT INTO answers (question_id, answer_text, is_correct, order_index, explanation)
			 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
			 RETURNING id`,
			q.ID, a.AnswerText, a.IsCorrect, a.OrderIndex, a.Explanation,
		).Scan(&a.ID)
		if err != nil {
			return err
		}
		a.QuestionID = q.ID
	}
	return nil
}

func recomputeTotalPointsTx(ctx context.Context, tx pgx.Tx, quizID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE quizzes
		 SET total_points = COALESCE((SELECT SUM(points) FROM questions WHERE quiz_id = $1), 0),
		     updated_at = NOW()
		 WHERE id = $1`, quizID,
	)
	return err
}
