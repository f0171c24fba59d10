package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
)

// ErrLectureNotPublished is returned when a student requests a draft lecture.
var ErrLectureNotPublished = errors.New("lecture is not published")

// LectureService handles lecture content management.
type LectureService struct {
	lectureRepo *repository.LectureRepository
	chapterRepo *repository.ChapterRepository
	subjectRepo *repository.SubjectRepository
	log         zerolog.Logger
}

// NewLectureService creates a new LectureService.
func NewLectureService(
	lectureRepo *repository.LectureRepository,
	chapterRepo *repository.ChapterRepository,
	subjectRepo *repository.SubjectRepository,
	log zerolog.Logger,
) *LectureService {
	return &LectureService{
		lectureRepo: lectureRepo,
		chapterRepo: chapterRepo,
		subjectRepo: subjectRepo,
		log:         log.With().Str("component", "lecture_service").Logger(),
	}
}

// GetByID retrieves a lecture. Students only see published lectures; the
// handler passes publishedOnly accordingly.
func (s *LectureService) GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*model.Lecture, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if publishedOnly && !lecture.IsPublished {
		return nil, ErrLectureNotPublished
	}
	return lecture, nil
}

// ListByChapter retrieves a chapter's lectures in display order.
func (s *LectureService) ListByChapter(ctx context.Context, chapterID uuid.UUID, publishedOnly bool) ([]model.Lecture, error) {
	lectures, err := s.lectureRepo.ListByChapter(ctx, chapterID, publishedOnly)
	if err != nil {
		return nil, err
	}
	if lectures == nil {
		lectures = []model.Lecture{}
	}
	return lectures, nil
}

// Create adds a lecture to a chapter after an ownership check.
func (s *LectureService) Create(ctx context.Context, chapterID uuid.UUID, lecturerID int, req *model.CreateLectureRequest) (*model.Lecture, error) {
	if err := s.checkChapterOwner(ctx, chapterID, lecturerID); err != nil {
		return nil, err
	}

	lecture := &model.Lecture{
		ChapterID:       chapterID,
		Title:           req.Title,
		Content:         req.Content,
		VideoURL:        req.VideoURL,
		DurationMinutes: req.DurationMinutes,
		OrderIndex:      req.OrderIndex,
	}
	if err := s.lectureRepo.Create(ctx, lecture); err != nil {
		return nil, err
	}
	return lecture, nil
}

// Update applies changes to a lecture after an ownership check.
func (s *LectureService) Update(ctx context.Context, id uuid.UUID, lecturerID int, req *model.UpdateLectureRequest) (*model.Lecture, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkChapterOwner(ctx, lecture.ChapterID, lecturerID); err != nil {
		return nil, err
	}

	if req.Title != "" {
		lecture.Title = req.Title
	}
	if req.Content != "" {
		lecture.Content = req.Content
	}
	if req.VideoURL != "" {
		lecture.VideoURL = req.VideoURL
	}
	if req.DurationMinutes != 0 {
		lecture.DurationMinutes = req.DurationMinutes
	}
	if req.OrderIndex != nil {
		lecture.OrderIndex = *req.OrderIndex
	}
	if req.IsPublished != nil {
		lecture.IsPublished = *req.IsPublished
	}
	if err := s.lectureRepo.Update(ctx, lecture); err != nil {
		return nil, err
	}
	return lecture, nil
}

// Delete removes a lecture after an ownership check.
func (s *LectureService) Delete(ctx context.Context, id uuid.UUID, lecturerID int) error {
	lecture, err := s.lectureRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkChapterOwner(ctx, lecture.ChapterID, lecturerID); err != nil {
		return err
	}
	return s.lectureRepo.Delete(ctx, id)
}

func (s *LectureService) checkChapterOwner(ctx context.Context, chapterID uuid.UUID, lecturerID int) error {
	if lecturerID == 0 {
		return nil
	}
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return err
	}
	subject, err := s.subjectRepo.GetByID(ctx, chapter.SubjectID)
	if err != nil {
		return err
	}
	if subject.LecturerID != lecturerID {
		return ErrNotOwner
	}
	return nil
}
