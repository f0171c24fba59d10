package model

import (
	"time"

	"github.com/google/uuid"
)

// Lecture is a unit of content inside a chapter.
type Lecture struct {
	ID              uuid.UUID `json:"id"`
	ChapterID       uuid.UUID `json:"chapter_id"`
	Title           string    `json:"title"`
	Content         string    `json:"content,omitempty"`
	VideoURL        string    `json:"video_url,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	OrderIndex      int       `json:"order_index"`
	IsPublished     bool      `json:"is_published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Material is an uploaded file attached to a course section,
// optionally linked to a specific lecture.
type Material struct {
	ID          uuid.UUID  `json:"id"`
	SectionID   uuid.UUID  `json:"section_id"`
	LectureID   *uuid.UUID `json:"lecture_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	FilePath    string     `json:"file_path"`
	FileType    string     `json:"file_type"`
	FileSize    int64      `json:"file_size"`
	UploadedBy  int        `json:"uploaded_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateLectureRequest is the payload for adding a lecture to a chapter.
type CreateLectureRequest struct {
	Title           string `json:"title" binding:"required,min=3,max=255"`
	Content         string `json:"content" binding:"omitempty"`
	VideoURL        string `json:"video_url" binding:"omitempty,url,max=500"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1,max=600"`
	OrderIndex      int    `json:"order_index" binding:"min=0"`
}

// UpdateLectureRequest is the payload for updating a lecture.
type UpdateLectureRequest struct {
	Title           string `json:"title" binding:"omitempty,min=3,max=255"`
	Content         string `json:"content" binding:"omitempty"`
	VideoURL        string `json:"video_url" binding:"omitempty,url,max=500"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1,max=600"`
	OrderIndex      *int   `json:"order_index" binding:"omitempty,min=0"`
	IsPublished     *bool  `json:"is_published" binding:"omitempty"`
}
