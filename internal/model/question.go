package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates the supported question types.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
	QuestionTypeEssay          QuestionType = "essay"
	QuestionTypeFillBlank      QuestionType = "fill_blank"
)

// IsAutoGraded reports whether responses to this question type are scored
// immediately against a pre-marked correct answer. Other types stay ungraded
// until a lecturer assigns points.
func IsAutoGraded(t QuestionType) bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeTrueFalse
}

// Question represents a single quiz question.
type Question struct {
	ID               uuid.UUID    `json:"id"`
	QuizID           uuid.UUID    `json:"quiz_id"`
	QuestionText     string       `json:"question_text"`
	QuestionType     QuestionType `json:"question_type"`
	Points           float64      `json:"points"`
	OrderIndex       int          `json:"order_index"`
	IsRequired       bool         `json:"is_required"`
	TimeLimitSeconds *int         `json:"time_limit_seconds,omitempty"`
	Explanation      string       `json:"explanation,omitempty"`
	Answers          []Answer     `json:"answers,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Answer is one selectable option belonging to a question.
type Answer struct {
	ID          uuid.UUID `json:"id"`
	QuestionID  uuid.UUID `json:"question_id"`
	AnswerText  string    `json:"answer_text"`
	IsCorrect   bool      `json:"is_correct"`
	OrderIndex  int       `json:"order_index"`
	Explanation string    `json:"explanation,omitempty"`
}

// DifficultyLabel classifies a question from its observed correctness ratio.
// Boundaries are exclusive: exactly 0.8 or 0.6 falls to the lower bucket.
func DifficultyLabel(correctRatio float64) string {
	switch {
	case correctRatio > 0.8:
		return "Easy"
	case correctRatio > 0.6:
		return "Medium"
	default:
		return "Hard"
	}
}

// AnswerInput is one option in a question create/update payload.
type AnswerInput struct {
	AnswerText  string `json:"answer_text" binding:"required,min=1,max=1000"`
	IsCorrect   bool   `json:"is_correct"`
	OrderIndex  int    `json:"order_index" binding:"min=0"`
	Explanation string `json:"explanation" binding:"omitempty,max=1000"`
}

// CreateQuestionRequest is the payload for adding a question to a quiz.
type CreateQuestionRequest struct {
	QuestionText     string        `json:"question_text" binding:"required,min=1,max=5000"`
	QuestionType     string        `json:"question_type" binding:"required,oneof=multiple_choice true_false short_answer essay fill_blank"`
	Points           float64       `json:"points" binding:"required,min=0.25,max=100"`
	OrderIndex       int           `json:"order_index" binding:"min=0"`
	IsRequired       *bool         `json:"is_required" binding:"omitempty"`
	TimeLimitSeconds *int          `json:"time_limit_seconds" binding:"omitempty,min=5,max=3600"`
	Explanation      string        `json:"explanation" binding:"omitempty,max=2000"`
	Answers          []AnswerInput `json:"answers" binding:"omitempty,max=10,dive"`
}

// UpdateQuestionRequest is the payload for updating a question.
// Replaces the answer set when Answers is non-nil.
type UpdateQuestionRequest struct {
	QuestionText     string        `json:"question_text" binding:"omitempty,min=1,max=5000"`
	Points           *float64      `json:"points" binding:"omitempty,min=0.25,max=100"`
	OrderIndex       *int          `json:"order_index" binding:"omitempty,min=0"`
	IsRequired       *bool         `json:"is_required" binding:"omitempty"`
	TimeLimitSeconds *int          `json:"time_limit_seconds" binding:"omitempty,min=5,max=3600"`
	Explanation      string        `json:"explanation" binding:"omitempty,max=2000"`
	Answers          []AnswerInput `json:"answers" binding:"omitempty,max=10,dive"`
}
