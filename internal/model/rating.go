package model

import (
	"time"

	"github.com/google/uuid"
)

// RatingTarget distinguishes what a rating is attached to.
type RatingTarget string

const (
	RatingTargetSection RatingTarget = "section"
	RatingTargetLecture RatingTarget = "lecture"
)

// Rating is a 1-5 star rating with an optional comment, one per
// (student, target).
type Rating struct {
	ID        uuid.UUID    `json:"id"`
	StudentID int          `json:"student_id"`
	Target    RatingTarget `json:"target"`
	TargetID  uuid.UUID    `json:"target_id"`
	Stars     int          `json:"stars"`
	Comment   string       `json:"comment,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// RatingSummary is the aggregate view of ratings for one target.
type RatingSummary struct {
	TargetID     uuid.UUID `json:"target_id"`
	AverageStars float64   `json:"average_stars"`
	TotalRatings int       `json:"total_ratings"`
	Histogram    [5]int    `json:"histogram"` // index 0 = 1 star
}

// RateRequest is the payload for submitting or updating a rating.
type RateRequest struct {
	Stars   int    `json:"stars" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=1000"`
}
