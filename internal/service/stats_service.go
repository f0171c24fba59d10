package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
)

// AdminDashboard is the aggregate view for administrators.
type AdminDashboard struct {
	TotalStudents    int                      `json:"total_students"`
	TotalLecturers   int                      `json:"total_lecturers"`
	TotalSubjects    int                      `json:"total_subjects"`
	TotalQuizzes     int                      `json:"total_quizzes"`
	QuizStatusCounts map[model.QuizStatus]int `json:"quiz_status_counts"`
	UpcomingQuizzes  []repository.UpcomingQuiz `json:"upcoming_quizzes"`
}

// StatsService assembles dashboard views.
type StatsService struct {
	statsRepo *repository.StatsRepository
	log       zerolog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(statsRepo *repository.StatsRepository, log zerolog.Logger) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		log:       log.With().Str("component", "stats_service").Logger(),
	}
}

// AdminDashboard assembles the administrator dashboard.
func (s *StatsService) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	students, lecturers, subjects, quizzes, err := s.statsRepo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}
	statusCounts, err := s.statsRepo.GetQuizStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.statsRepo.GetUpcomingQuizzes(ctx, 5)
	if err != nil {
		return nil, err
	}
	if upcoming == nil {
		upcoming = []repository.UpcomingQuiz{}
	}
	return &AdminDashboard{
		TotalStudents:    students,
		TotalLecturers:   lecturers,
		TotalSubjects:    subjects,
		TotalQuizzes:     quizzes,
		QuizStatusCounts: statusCounts,
		UpcomingQuizzes:  upcoming,
	}, nil
}

// LecturerDashboard assembles one lecturer's dashboard.
func (s *StatsService) LecturerDashboard(ctx context.Context, lecturerID int) (*repository.LecturerSummary, error) {
	return s.statsRepo.GetLecturerSummary(ctx, lecturerID)
}

// StudentDashboard assembles one student's dashboard.
func (s *StatsService) StudentDashboard(ctx context.Context, studentID int) (*repository.StudentSummary, error) {
	return s.statsRepo.GetStudentSummary(ctx, studentID)
}
