package model

import "github.com/google/uuid"

// AnswerOptionForStudent is an answer option with its correctness stripped.
type AnswerOptionForStudent struct {
	ID         uuid.UUID `json:"id"`
	AnswerText string    `json:"answer_text"`
	OrderIndex int       `json:"order_index"`
}

// QuestionForStudent is a question as presented to a student taking the
// quiz: no correct answers, no explanations.
type QuestionForStudent struct {
	ID               uuid.UUID                `json:"id"`
	QuestionText     string                   `json:"question_text"`
	QuestionType     QuestionType             `json:"question_type"`
	Points           float64                  `json:"points"`
	OrderIndex       int                      `json:"order_index"`
	IsRequired       bool                     `json:"is_required"`
	TimeLimitSeconds *int                     `json:"time_limit_seconds,omitempty"`
	Answers          []AnswerOptionForStudent `json:"answers,omitempty"`
}

// QuizPayload is the cached student-facing quiz document served when an
// attempt starts.
type QuizPayload struct {
	QuizID           uuid.UUID            `json:"quiz_id"`
	Title            string               `json:"title"`
	Instructions     string               `json:"instructions,omitempty"`
	TimeLimitMinutes *int                 `json:"time_limit_minutes,omitempty"`
	TotalPoints      float64              `json:"total_points"`
	ShuffleQuestions bool                 `json:"shuffle_questions"`
	ShuffleAnswers   bool                 `json:"shuffle_answers"`
	Questions        []QuestionForStudent `json:"questions"`
}
