package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
)

// ErrNotOwner is returned when a lecturer operates on course content they
// do not own.
var ErrNotOwner = errors.New("not the owner of this resource")

// CourseService handles subjects, chapters, sections and enrollment.
type CourseService struct {
	subjectRepo *repository.SubjectRepository
	chapterRepo *repository.ChapterRepository
	sectionRepo *repository.SectionRepository
	log         zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	subjectRepo *repository.SubjectRepository,
	chapterRepo *repository.ChapterRepository,
	sectionRepo *repository.SectionRepository,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		subjectRepo: subjectRepo,
		chapterRepo: chapterRepo,
		sectionRepo: sectionRepo,
		log:         log.With().Str("component", "course_service").Logger(),
	}
}

// ─── Subjects ──────────────────────────────────────────────────────────

// GetSubject retrieves a subject by ID.
func (s *CourseService) GetSubject(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	return s.subjectRepo.GetByID(ctx, id)
}

// ListSubjects retrieves subjects, narrowed to one lecturer when lecturerID
// is non-nil.
func (s *CourseService) ListSubjects(ctx context.Context, lecturerID *int, page, perPage int) ([]model.Subject, *response.Pagination, error) {
	page, perPage = clampPaging(page, perPage)
	subjects, total, err := s.subjectRepo.ListPaginated(ctx, lecturerID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}
	return subjects, buildPagination(page, perPage, total), nil
}

// CreateSubject inserts a subject owned by the given lecturer.
func (s *CourseService) CreateSubject(ctx context.Context, lecturerID int, req *model.CreateSubjectRequest) (*model.Subject, error) {
	subject := &model.Subject{
		SubjectCode: req.SubjectCode,
		SubjectName: req.SubjectName,
		Description: req.Description,
		Credits:     req.Credits,
		LecturerID:  lecturerID,
	}
	if subject.Credits == 0 {
		subject.Credits = 3
	}
	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}
	s.log.Info().Str("subject_id", subject.ID.String()).Str("code", subject.SubjectCode).Msg("Subject created")
	return subject, nil
}

// UpdateSubject applies changes after an ownership check. Admins pass
// lecturerID 0 to bypass the check.
func (s *CourseService) UpdateSubject(ctx context.Context, id uuid.UUID, lecturerID int, req *model.UpdateSubjectRequest) (*model.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lecturerID != 0 && subject.LecturerID != lecturerID {
		return nil, ErrNotOwner
	}
	if req.SubjectName != "" {
		subject.SubjectName = req.SubjectName
	}
	if req.Description != "" {
		subject.Description = req.Description
	}
	if req.Credits != 0 {
		subject.Credits = req.Credits
	}
	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// DeleteSubject removes a subject after an ownership check.
func (s *CourseService) DeleteSubject(ctx context.Context, id uuid.UUID, lecturerID int) error {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if lecturerID != 0 && subject.LecturerID != lecturerID {
		return ErrNotOwner
	}
	return s.subjectRepo.Delete(ctx, id)
}

// ─── Chapters ──────────────────────────────────────────────────────────

// ListChapters retrieves a subject's chapters in display order.
func (s *CourseService) ListChapters(ctx context.Context, subjectID uuid.UUID) ([]model.Chapter, error) {
	chapters, err := s.chapterRepo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if chapters == nil {
		chapters = []model.Chapter{}
	}
	return chapters, nil
}

// CreateChapter adds a chapter to a subject after an ownership check.
func (s *CourseService) CreateChapter(ctx context.Context, subjectID uuid.UUID, lecturerID int, req *model.CreateChapterRequest) (*model.Chapter, error) {
	subject, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if lecturerID != 0 && subject.LecturerID != lecturerID {
		return nil, ErrNotOwner
	}

	chapter := &model.Chapter{
		SubjectID:   subjectID,
		Title:       req.Title,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
	}
	if err := s.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// UpdateChapter applies changes to a chapter after an ownership check.
func (s *CourseService) UpdateChapter(ctx context.Context, id uuid.UUID, lecturerID int, req *model.CreateChapterRequest) (*model.Chapter, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSubjectOwner(ctx, chapter.SubjectID, lecturerID); err != nil {
		return nil, err
	}

	chapter.Title = req.Title
	chapter.Description = req.Description
	chapter.OrderIndex = req.OrderIndex
	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// DeleteChapter removes a chapter after an ownership check.
func (s *CourseService) DeleteChapter(ctx context.Context, id uuid.UUID, lecturerID int) error {
	chapter, err := s.chapterRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkSubjectOwner(ctx, chapter.SubjectID, lecturerID); err != nil {
		return err
	}
	return s.chapterRepo.Delete(ctx, id)
}

func (s *CourseService) checkSubjectOwner(ctx context.Context, subjectID uuid.UUID, lecturerID int) error {
	if lecturerID == 0 {
		return nil
	}
	subject, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return err
	}
	if subject.LecturerID != lecturerID {
		return ErrNotOwner
	}
	return nil
}

// ─── Sections ──────────────────────────────────────────────────────────

// GetSection retrieves a course section by ID.
func (s *CourseService) GetSection(ctx context.Context, id uuid.UUID) (*model.CourseSection, error) {
	return s.sectionRepo.GetByID(ctx, id)
}

// ListSections retrieves sections, narrowed to one lecturer when lecturerID
// is non-nil.
func (s *CourseService) ListSections(ctx context.Context, lecturerID *int, page, perPage int) ([]model.CourseSection, *response.Pagination, error) {
	page, perPage = clampPaging(page, perPage)
	sections, total, err := s.sectionRepo.ListPaginated(ctx, lecturerID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if sections == nil {
		sections = []model.CourseSection{}
	}
	return sections, buildPagination(page, perPage, total), nil
}

// ListStudentSections retrieves the sections a student is enrolled in.
func (s *CourseService) ListStudentSections(ctx context.Context, studentID int) ([]model.CourseSection, error) {
	sections, err := s.sectionRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if sections == nil {
		sections = []model.CourseSection{}
	}
	return sections, nil
}

// CreateSection opens a course section on a subject the lecturer owns.
func (s *CourseService) CreateSection(ctx context.Context, lecturerID int, req *model.CreateSectionRequest) (*model.CourseSection, error) {
	if err := s.checkSubjectOwner(ctx, req.SubjectID, lecturerID); err != nil {
		return nil, err
	}

	section := &model.CourseSection{
		SubjectID:    req.SubjectID,
		LecturerID:   lecturerID,
		SectionName:  req.SectionName,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		MaxStudents:  req.MaxStudents,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	if section.MaxStudents == 0 {
		section.MaxStudents = 50
	}
	if section.LecturerID == 0 {
		// Admin creating on behalf of the subject owner.
		subject, err := s.subjectRepo.GetByID(ctx, req.SubjectID)
		if err != nil {
			return nil, err
		}
		section.LecturerID = subject.LecturerID
	}
	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}
	s.log.Info().Str("section_id", section.ID.String()).Str("name", section.SectionName).Msg("Section created")
	return section, nil
}

// UpdateSection applies changes after an ownership check.
func (s *CourseService) UpdateSection(ctx context.Context, id uuid.UUID, lecturerID int, req *model.CreateSectionRequest) (*model.CourseSection, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lecturerID != 0 && section.LecturerID != lecturerID {
		return nil, ErrNotOwner
	}

	section.SectionName = req.SectionName
	section.Semester = req.Semester
	section.AcademicYear = req.AcademicYear
	if req.MaxStudents != 0 {
		section.MaxStudents = req.MaxStudents
	}
	section.StartDate = req.StartDate
	section.EndDate = req.EndDate
	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// DeleteSection removes a section after an ownership check.
func (s *CourseService) DeleteSection(ctx context.Context, id uuid.UUID, lecturerID int) error {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if lecturerID != 0 && section.LecturerID != lecturerID {
		return ErrNotOwner
	}
	return s.sectionRepo.Delete(ctx, id)
}

// ─── Enrollment ────────────────────────────────────────────────────────

// Enroll adds a student to a section after an ownership check.
func (s *CourseService) Enroll(ctx context.Context, sectionID uuid.UUID, lecturerID, studentID int) (*model.Enrollment, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if lecturerID != 0 && section.LecturerID != lecturerID {
		return nil, ErrNotOwner
	}
	return s.sectionRepo.Enroll(ctx, studentID, sectionID)
}

// BulkEnroll adds several students to a section in one transaction.
func (s *CourseService) BulkEnroll(ctx context.Context, sectionID uuid.UUID, lecturerID int, studentIDs []int) ([]model.Enrollment, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if lecturerID != 0 && section.LecturerID != lecturerID {
		return nil, ErrNotOwner
	}
	enrollments, err := s.sectionRepo.BulkEnroll(ctx, studentIDs, sectionID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("section_id", sectionID.String()).Int("count", len(enrollments)).Msg("Students enrolled")
	return enrollments, nil
}

// Unenroll drops a student from a section.
func (s *CourseService) Unenroll(ctx context.Context, sectionID uuid.UUID, lecturerID, studentID int) error {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return err
	}
	if lecturerID != 0 && section.LecturerID != lecturerID {
		return ErrNotOwner
	}
	return s.sectionRepo.Unenroll(ctx, studentID, sectionID)
}

// IsEnrolled reports whether the student has an active enrollment.
func (s *CourseService) IsEnrolled(ctx context.Context, studentID int, sectionID uuid.UUID) (bool, error) {
	return s.sectionRepo.IsEnrolled(ctx, studentID, sectionID)
}
