package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
)

// ProgressService handles lecture reading progress and section rollups.
type ProgressService struct {
	progressRepo *repository.ProgressRepository
	lectureRepo  *repository.LectureRepository
	sectionRepo  *repository.SectionRepository
	log          zerolog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(
	progressRepo *repository.ProgressRepository,
	lectureRepo *repository.LectureRepository,
	sectionRepo *repository.SectionRepository,
	log zerolog.Logger,
) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		lectureRepo:  lectureRepo,
		sectionRepo:  sectionRepo,
		log:          log.With().Str("component", "progress_service").Logger(),
	}
}

// ReportLecture folds a reading report into the student's lecture progress
// and, when the report is for an enrolled section, refreshes the section
// rollups that contain this lecture.
func (s *ProgressService) ReportLecture(ctx context.Context, studentID int, lectureID uuid.UUID, req *model.UpdateProgressRequest) (*model.LectureProgress, error) {
	visible, err := s.lectureRepo.VisibleToStudent(ctx, lectureID, studentID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrNotVisible
	}

	progress, err := s.progressRepo.UpsertLectureProgress(ctx, studentID, lectureID,
		req.TimeSpentSeconds, req.ScrolledToBottom, model.MinLectureReadSeconds)
	if err != nil {
		return nil, err
	}

	if progress.IsCompleted {
		s.refreshSectionRollups(ctx, studentID, lectureID)
	}
	return progress, nil
}

// GetLecture retrieves the student's progress on one lecture. Missing rows
// read as zero progress.
func (s *ProgressService) GetLecture(ctx context.Context, studentID int, lectureID uuid.UUID) (*model.LectureProgress, error) {
	progress, err := s.progressRepo.GetLectureProgress(ctx, studentID, lectureID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.LectureProgress{StudentID: studentID, LectureID: lectureID}, nil
		}
		return nil, err
	}
	return progress, nil
}

// GetSection retrieves the student's rollup for a section, computing it on
// the fly when no row exists yet.
func (s *ProgressService) GetSection(ctx context.Context, studentID int, sectionID uuid.UUID) (*model.SectionProgress, error) {
	progress, err := s.progressRepo.GetSectionProgress(ctx, studentID, sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.progressRepo.RecomputeSectionProgress(ctx, studentID, sectionID)
		}
		return nil, err
	}
	return progress, nil
}

// ListSection retrieves every student's rollup in a section, for the
// owning lecturer.
func (s *ProgressService) ListSection(ctx context.Context, sectionID uuid.UUID, lecturerID int) ([]model.SectionProgress, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if lecturerID != 0 && section.LecturerID != lecturerID {
		return nil, ErrNotOwner
	}
	progress, err := s.progressRepo.ListSectionProgress(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = []model.SectionProgress{}
	}
	return progress, nil
}

// refreshSectionRollups recomputes the rollup of every enrolled section
// whose subject contains the lecture. Rollup failures are logged, not
// returned; the lecture progress itself has already been stored.
func (s *ProgressService) refreshSectionRollups(ctx context.Context, studentID int, lectureID uuid.UUID) {
	sections, err := s.sectionRepo.ListByStudent(ctx, studentID)
	if err != nil {
		s.log.Warn().Err(err).Int("student_id", studentID).Msg("Failed to list sections for rollup")
		return
	}

	// Recomputing a section the lecture doesn't belong to is a no-op, so
	// every enrolled section is refreshed rather than resolving the
	// lecture -> subject -> section chain here.
	for i := range sections {
		if _, err := s.progressRepo.RecomputeSectionProgress(ctx, studentID, sections[i].ID); err != nil {
			s.log.Warn().Err(err).
				Str("section_id", sections[i].ID.String()).
				Int("student_id", studentID).
				Msg("Failed to recompute section progress")
		}
	}
}
