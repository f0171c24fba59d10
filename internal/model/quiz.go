package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// QuizStatus enumerates the quiz publication states.
// Transitions are monotonic: draft -> published -> closed.
type QuizStatus string

const (
	QuizStatusDraft     QuizStatus = "draft"
	QuizStatusPublished QuizStatus = "published"
	QuizStatusClosed    QuizStatus = "closed"
)

// Quiz represents a quiz owned by a lecturer, attached to a subject and
// optionally scoped to a single course section.
type Quiz struct {
	ID                 uuid.UUID  `json:"id"`
	Title              string     `json:"title"`
	Instructions       string     `json:"instructions,omitempty"`
	SubjectID          uuid.UUID  `json:"subject_id"`
	SectionID          *uuid.UUID `json:"section_id,omitempty"`
	LecturerID         int        `json:"lecturer_id"`
	TotalPoints        float64    `json:"total_points"`
	TimeLimitMinutes   *int       `json:"time_limit_minutes,omitempty"`
	AttemptsAllowed    int        `json:"attempts_allowed"`
	ShuffleQuestions   bool       `json:"shuffle_questions"`
	ShuffleAnswers     bool       `json:"shuffle_answers"`
	ShowResults        bool       `json:"show_results"`
	ShowCorrectAnswers bool       `json:"show_correct_answers"`
	StartTime          *time.Time `json:"start_time,omitempty"`
	EndTime            *time.Time `json:"end_time,omitempty"`
	PassingScore       *float64   `json:"passing_score,omitempty"`
	Status             QuizStatus `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// QuizIsActive reports whether the quiz accepts attempts at the given time:
// published, and inside the [start_time, end_time] window when configured.
func QuizIsActive(q *Quiz, now time.Time) bool {
	if q.Status != QuizStatusPublished {
		return false
	}
	if q.StartTime != nil && q.StartTime.After(now) {
		return false
	}
	if q.EndTime != nil && q.EndTime.Before(now) {
		return false
	}
	return true
}

// QuizIsUpcoming reports whether the quiz is published but not yet open.
func QuizIsUpcoming(q *Quiz, now time.Time) bool {
	return q.Status == QuizStatusPublished && q.StartTime != nil && q.StartTime.After(now)
}

// QuizIsExpired reports whether the quiz window has closed, regardless of status.
func QuizIsExpired(q *Quiz, now time.Time) bool {
	return q.EndTime != nil && q.EndTime.Before(now)
}

// Percentage computes score/maxScore as a percentage rounded to 2 decimals.
// Returns 0 when maxScore is zero.
func Percentage(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return math.Round(score/maxScore*10000) / 100
}

// PassedAgainst classifies a percentage against an optional passing score.
// Returns nil when no passing score is configured.
func PassedAgainst(percentage float64, passingScore *float64) *bool {
	if passingScore == nil {
		return nil
	}
	passed := percentage >= *passingScore
	return &passed
}

// CreateQuizRequest is the payload for creating a quiz (always draft).
type CreateQuizRequest struct {
	Title              string     `json:"title" binding:"required,min=3,max=255"`
	Instructions       string     `json:"instructions" binding:"omitempty,max=5000"`
	SubjectID          uuid.UUID  `json:"subject_id" binding:"required"`
	SectionID          *uuid.UUID `json:"section_id" binding:"omitempty"`
	TimeLimitMinutes   *int       `json:"time_limit_minutes" binding:"omitempty,min=1,max=480"`
	AttemptsAllowed    int        `json:"attempts_allowed" binding:"omitempty,min=1,max=20"`
	ShuffleQuestions   bool       `json:"shuffle_questions"`
	ShuffleAnswers     bool       `json:"shuffle_answers"`
	ShowResults        *bool      `json:"show_results" binding:"omitempty"`
	ShowCorrectAnswers bool       `json:"show_correct_answers"`
	StartTime          *time.Time `json:"start_time" binding:"omitempty"`
	EndTime            *time.Time `json:"end_time" binding:"omitempty,gtfield=StartTime"`
	PassingScore       *float64   `json:"passing_score" binding:"omitempty,min=0,max=100"`
}

// UpdateQuizRequest is the payload for updating a draft quiz.
type UpdateQuizRequest struct {
	Title              string     `json:"title" binding:"omitempty,min=3,max=255"`
	Instructions       string     `json:"instructions" binding:"omitempty,max=5000"`
	SectionID          *uuid.UUID `json:"section_id" binding:"omitempty"`
	TimeLimitMinutes   *int       `json:"time_limit_minutes" binding:"omitempty,min=1,max=480"`
	AttemptsAllowed    *int       `json:"attempts_allowed" binding:"omitempty,min=1,max=20"`
	ShuffleQuestions   *bool      `json:"shuffle_questions" binding:"omitempty"`
	ShuffleAnswers     *bool      `json:"shuffle_answers" binding:"omitempty"`
	ShowResults        *bool      `json:"show_results" binding:"omitempty"`
	ShowCorrectAnswers *bool      `json:"show_correct_answers" binding:"omitempty"`
	StartTime          *time.Time `json:"start_time" binding:"omitempty"`
	EndTime            *time.Time `json:"end_time" binding:"omitempty"`
	PassingScore       *float64   `json:"passing_score" binding:"omitempty,min=0,max=100"`
}
