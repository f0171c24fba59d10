package model

import "time"

// Student represents a student profile linked to an account.
type Student struct {
	ID          int       `json:"id"`
	AccountID   int       `json:"account_id"`
	StudentCode string    `json:"student_code"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Lecturer represents a lecturer profile linked to an account.
type Lecturer struct {
	ID           int       `json:"id"`
	AccountID    int       `json:"account_id"`
	LecturerCode string    `json:"lecturer_code"`
	FullName     string    `json:"full_name"`
	Title        string    `json:"title,omitempty"`
	Department   string    `json:"department,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateStudentRequest is the payload for registering a student with an account.
type CreateStudentRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	StudentCode string `json:"student_code" binding:"required,min=3,max=20"`
	FullName    string `json:"full_name" binding:"required,min=2,max=255"`
	Phone       string `json:"phone" binding:"omitempty,max=20"`
}

// UpdateStudentRequest is the payload for updating a student profile.
type UpdateStudentRequest struct {
	FullName string `json:"full_name" binding:"omitempty,min=2,max=255"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
}

// CreateLecturerRequest is the payload for registering a lecturer with an account.
type CreateLecturerRequest struct {
	Email        string `json:"email" binding:"required,email,max=255"`
	Password     string `json:"password" binding:"required,min=8,max=128"`
	LecturerCode string `json:"lecturer_code" binding:"required,min=3,max=20"`
	FullName     string `json:"full_name" binding:"required,min=2,max=255"`
	Title        string `json:"title" binding:"omitempty,max=100"`
	Department   string `json:"department" binding:"omitempty,max=255"`
}

// UpdateLecturerRequest is the payload for updating a lecturer profile.
type UpdateLecturerRequest struct {
	FullName   string `json:"full_name" binding:"omitempty,min=2,max=255"`
	Title      string `json:"title" binding:"omitempty,max=100"`
	Department string `json:"department" binding:"omitempty,max=255"`
}
