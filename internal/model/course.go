package model

import (
	"time"

	"github.com/google/uuid"
)

// Subject represents a course subject owned by a lecturer.
type Subject struct {
	ID          uuid.UUID `json:"id"`
	SubjectCode string    `json:"subject_code"`
	SubjectName string    `json:"subject_name"`
	Description string    `json:"description,omitempty"`
	Credits     int       `json:"credits"`
	LecturerID  int       `json:"lecturer_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Chapter groups lectures inside a subject.
type Chapter struct {
	ID          uuid.UUID `json:"id"`
	SubjectID   uuid.UUID `json:"subject_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseSection is a scheduled offering of a subject (a "class").
type CourseSection struct {
	ID           uuid.UUID  `json:"id"`
	SubjectID    uuid.UUID  `json:"subject_id"`
	LecturerID   int        `json:"lecturer_id"`
	SectionName  string     `json:"section_name"`
	Semester     string     `json:"semester"`
	AcademicYear string     `json:"academic_year"`
	MaxStudents  int        `json:"max_students"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// EnrollmentStatus enumerates enrollment states.
type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentDropped EnrollmentStatus = "dropped"
)

// Enrollment links a student to a course section.
type Enrollment struct {
	ID         uuid.UUID        `json:"id"`
	StudentID  int              `json:"student_id"`
	SectionID  uuid.UUID        `json:"section_id"`
	Status     EnrollmentStatus `json:"status"`
	EnrolledAt time.Time        `json:"enrolled_at"`
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	SubjectCode string `json:"subject_code" binding:"required,min=2,max=20"`
	SubjectName string `json:"subject_name" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Credits     int    `json:"credits" binding:"omitempty,min=1,max=10"`
}

// UpdateSubjectRequest is the payload for updating a subject.
type UpdateSubjectRequest struct {
	SubjectName string `json:"subject_name" binding:"omitempty,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Credits     int    `json:"credits" binding:"omitempty,min=1,max=10"`
}

// CreateChapterRequest is the payload for adding a chapter to a subject.
type CreateChapterRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	OrderIndex  int    `json:"order_index" binding:"min=0"`
}

// CreateSectionRequest is the payload for opening a course section.
type CreateSectionRequest struct {
	SubjectID    uuid.UUID  `json:"subject_id" binding:"required"`
	SectionName  string     `json:"section_name" binding:"required,min=1,max=100"`
	Semester     string     `json:"semester" binding:"required,max=20"`
	AcademicYear string     `json:"academic_year" binding:"required,max=20"`
	MaxStudents  int        `json:"max_students" binding:"omitempty,min=1,max=500"`
	StartDate    *time.Time `json:"start_date" binding:"omitempty"`
	EndDate      *time.Time `json:"end_date" binding:"omitempty,gtfield=StartDate"`
}

// EnrollRequest enrolls a single student into a section.
type EnrollRequest struct {
	StudentID int `json:"student_id" binding:"required,min=1"`
}

// BulkEnrollRequest enrolls several students into a section at once.
type BulkEnrollRequest struct {
	StudentIDs []int `json:"student_ids" binding:"required,min=1,max=500,dive,min=1"`
}
