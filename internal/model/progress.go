package model

import (
	"time"

	"github.com/google/uuid"
)

// MinLectureReadSeconds is the minimum accumulated read time before a
// lecture can count as completed.
const MinLectureReadSeconds = 60

// LectureProgress tracks one student's progress through one lecture.
type LectureProgress struct {
	ID               uuid.UUID  `json:"id"`
	StudentID        int        `json:"student_id"`
	LectureID        uuid.UUID  `json:"lecture_id"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	ScrolledToBottom bool       `json:"scrolled_to_bottom"`
	IsCompleted      bool       `json:"is_completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// LectureIsCompleted applies the completion rule: both a minimum read time
// and the scroll-to-bottom flag are required.
func LectureIsCompleted(timeSpentSeconds int, scrolledToBottom bool) bool {
	return timeSpentSeconds >= MinLectureReadSeconds && scrolledToBottom
}

// SectionProgress is the per-student rollup over a course section.
type SectionProgress struct {
	ID                uuid.UUID `json:"id"`
	StudentID         int       `json:"student_id"`
	SectionID         uuid.UUID `json:"section_id"`
	LecturesCompleted int       `json:"lectures_completed"`
	TotalLectures     int       `json:"total_lectures"`
	Percentage        float64   `json:"percentage"`
	LastActivityAt    time.Time `json:"last_activity_at"`
}

// UpdateProgressRequest is the payload for reporting lecture reading progress.
type UpdateProgressRequest struct {
	TimeSpentSeconds int  `json:"time_spent_seconds" binding:"required,min=0,max=86400"`
	ScrolledToBottom bool `json:"scrolled_to_bottom"`
}
