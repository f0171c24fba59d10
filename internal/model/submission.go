package model

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus enumerates quiz attempt states.
//
// in_progress -> submitted -> graded; graded is reached only after manual
// grading of essay/short-answer responses completes. in_progress -> expired
// happens when the attempt deadline passes without an explicit submit;
// an administrative quiz close force-submits instead (status submitted).
type SubmissionStatus string

const (
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionSubmitted  SubmissionStatus = "submitted"
	SubmissionGraded     SubmissionStatus = "graded"
	SubmissionExpired    SubmissionStatus = "expired"
)

// Submission is one student's attempt at a quiz.
type Submission struct {
	ID               uuid.UUID        `json:"id"`
	QuizID           uuid.UUID        `json:"quiz_id"`
	StudentID        int              `json:"student_id"`
	AttemptNumber    int              `json:"attempt_number"`
	StartedAt        time.Time        `json:"started_at"`
	SubmittedAt      *time.Time       `json:"submitted_at,omitempty"`
	TimeSpentSeconds int              `json:"time_spent"`
	Score            *float64         `json:"score,omitempty"`
	MaxScore         float64          `json:"max_score"`
	Percentage       *float64         `json:"percentage,omitempty"`
	Status           SubmissionStatus `json:"status"`
	IsFlagged        bool             `json:"is_flagged"`
	FlaggedReason    string           `json:"flagged_reason,omitempty"`
	IPAddress        string           `json:"-"`
	UserAgent        string           `json:"-"`
}

// Response is a student's answer to one question within an attempt.
// Unique per (submission, question); resubmissions bump AttemptCount.
type Response struct {
	ID               uuid.UUID  `json:"id"`
	SubmissionID     uuid.UUID  `json:"submission_id"`
	QuestionID       uuid.UUID  `json:"question_id"`
	AnswerID         *uuid.UUID `json:"answer_id,omitempty"`
	AnswerText       string     `json:"answer_text,omitempty"`
	IsCorrect        *bool      `json:"is_correct"`
	PointsEarned     *float64   `json:"points_earned"`
	IsFlagged        bool       `json:"is_flagged"`
	TimeSpentSeconds int        `json:"time_spent"`
	AttemptCount     int        `json:"attempt_count"`
}

// AutoGradedScore sums points_earned over the auto-gradable subset of
// responses, meaning those whose correctness is already known. Manually graded
// types contribute nothing until a grader fills in points_earned.
func AutoGradedScore(responses []Response) float64 {
	var score float64
	for i := range responses {
		if responses[i].IsCorrect != nil && responses[i].PointsEarned != nil {
			score += *responses[i].PointsEarned
		}
	}
	return score
}

// StartAttemptRequest is the payload for creating a quiz attempt.
type StartAttemptRequest struct {
	QuizID uuid.UUID `json:"quiz_id" binding:"required"`
}

// SubmitAnswerRequest is the payload for answering one question.
// Exactly one of AnswerID / AnswerText is meaningful depending on type.
type SubmitAnswerRequest struct {
	QuestionID       uuid.UUID  `json:"question_id" binding:"required"`
	AnswerID         *uuid.UUID `json:"answer_id" binding:"omitempty"`
	AnswerText       string     `json:"answer_text" binding:"omitempty,max=10000"`
	TimeSpentSeconds int        `json:"time_spent" binding:"omitempty,min=0"`
}

// FlagQuestionRequest marks one question of an attempt for review.
type FlagQuestionRequest struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Reason     string    `json:"reason" binding:"omitempty,max=500"`
}

// AttemptProgress is the derived read-only progress of an attempt.
type AttemptProgress struct {
	SubmissionID       uuid.UUID `json:"submission_id"`
	TotalQuestions     int       `json:"total_questions"`
	AnsweredQuestions  int       `json:"answered_questions"`
	PercentageAnswered float64   `json:"percentage_answered"`
	RunningScore       float64   `json:"running_score"`
	MaxScore           float64   `json:"max_score"`
}

// AttemptResult is the full outcome of a finished attempt.
type AttemptResult struct {
	Submission Submission `json:"submission"`
	Responses  []Response `json:"responses"`
	Passed     *bool      `json:"passed"`
}
