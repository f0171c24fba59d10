package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/validator"
)

// CourseHandler handles subjects, chapters, course sections, and
// enrollment.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// failCourseErr maps the shared course-service sentinels. Returns false
// when the error was not one of them so callers can keep mapping.
func failCourseErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotResourceOwner)
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// ─── Subjects ────────────────────────────────────────────────────────────

// ListSubjects godoc
// GET /api/v1/subjects
// Admins see every subject; lecturers see only their own.
func (h *CourseHandler) ListSubjects(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	subjects, pagination, err := h.courseService.ListSubjects(c.Request.Context(), lecturerFilter(claims), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"subjects": subjects}, pagination)
}

// GetSubject godoc
// GET /api/v1/subjects/:subject_id
func (h *CourseHandler) GetSubject(c *gin.Context) {
	id, ok := pathID(c, "subject_id")
	if !ok {
		return
	}

	subject, err := h.courseService.GetSubject(c.Request.Context(), id)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subject": subject})
}

// CreateSubject godoc
// POST /api/v1/subjects
func (h *CourseHandler) CreateSubject(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subject, err := h.courseService.CreateSubject(c.Request.Context(), lecturerScope(claims), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"subject": subject})
}

// UpdateSubject godoc
// PUT /api/v1/subjects/:subject_id
func (h *CourseHandler) UpdateSubject(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "subject_id")
	if !ok {
		return
	}

	var req model.UpdateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subject, err := h.courseService.UpdateSubject(c.Request.Context(), id, lecturerScope(claims), &req)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subject": subject})
}

// DeleteSubject godoc
// DELETE /api/v1/subjects/:subject_id
func (h *CourseHandler) DeleteSubject(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "subject_id")
	if !ok {
		return
	}

	if err := h.courseService.DeleteSubject(c.Request.Context(), id, lecturerScope(claims)); err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ─── Chapters ────────────────────────────────────────────────────────────

// ListChapters godoc
// GET /api/v1/subjects/:subject_id/chapters
func (h *CourseHandler) ListChapters(c *gin.Context) {
	id, ok := pathID(c, "subject_id")
	if !ok {
		return
	}

	chapters, err := h.courseService.ListChapters(c.Request.Context(), id)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"chapters": chapters})
}

// CreateChapter godoc
// POST /api/v1/subjects/:subject_id/chapters
func (h *CourseHandler) CreateChapter(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	subjectID, ok := pathID(c, "subject_id")
	if !ok {
		return
	}

	var req model.CreateChapterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	chapter, err := h.courseService.CreateChapter(c.Request.Context(), subjectID, lecturerScope(claims), &req)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"chapter": chapter})
}

// UpdateChapter godoc
// PUT /api/v1/chapters/:chapter_id
func (h *CourseHandler) UpdateChapter(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "chapter_id")
	if !ok {
		return
	}

	var req model.CreateChapterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	chapter, err := h.courseService.UpdateChapter(c.Request.Context(), id, lecturerScope(claims), &req)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"chapter": chapter})
}

// DeleteChapter godoc
// DELETE /api/v1/chapters/:chapter_id
func (h *CourseHandler) DeleteChapter(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "chapter_id")
	if !ok {
		return
	}

	if err := h.courseService.DeleteChapter(c.Request.Context(), id, lecturerScope(claims)); err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ─── Sections ────────────────────────────────────────────────────────────

// ListSections godoc
// GET /api/v1/sections
func (h *CourseHandler) ListSections(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	sections, pagination, err := h.courseService.ListSections(c.Request.Context(), lecturerFilter(claims), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"sections": sections}, pagination)
}

// ListMySections godoc
// GET /api/v1/student/sections
// Lists the sections the calling student is actively enrolled in.
func (h *CourseHandler) ListMySections(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	sections, err := h.courseService.ListStudentSections(c.Request.Context(), claims.RoleID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sections": sections})
}

// GetSection godoc
// GET /api/v1/sections/:section_id
func (h *CourseHandler) GetSection(c *gin.Context) {
	id, ok := pathID(c, "section_id")
	if !ok {
		return
	}

	section, err := h.courseService.GetSection(c.Request.Context(), id)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"section": section})
}

// CreateSection godoc
// POST /api/v1/sections
func (h *CourseHandler) CreateSection(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req model.CreateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.courseService.CreateSection(c.Request.Context(), lecturerScope(claims), &req)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"section": section})
}

// UpdateSection godoc
// PUT /api/v1/sections/:section_id
func (h *CourseHandler) UpdateSection(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "section_id")
	if !ok {
		return
	}

	var req model.CreateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.courseService.UpdateSection(c.Request.Context(), id, lecturerScope(claims), &req)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"section": section})
}

// DeleteSection godoc
// DELETE /api/v1/sections/:section_id
func (h *CourseHandler) DeleteSection(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "section_id")
	if !ok {
		return
	}

	if err := h.courseService.DeleteSection(c.Request.Context(), id, lecturerScope(claims)); err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ─── Enrollment ──────────────────────────────────────────────────────────

func failEnrollErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrSectionFull):
		response.Fail(c, http.StatusConflict, response.ErrSectionFull)
	case errors.Is(err, repository.ErrAlreadyEnrolled):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyEnrolled)
	default:
		failCourseErr(c, err)
	}
}

// Enroll godoc
// POST /api/v1/sections/:section_id/enrollments
func (h *CourseHandler) Enroll(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "section_id")
	if !ok {
		return
	}

	var req model.EnrollRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.courseService.Enroll(c.Request.Context(), sectionID, lecturerScope(claims), req.StudentID)
	if err != nil {
		failEnrollErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// BulkEnroll godoc
// POST /api/v1/sections/:section_id/enrollments/bulk
// All-or-nothing: one full or duplicate enrollment rejects the batch.
func (h *CourseHandler) BulkEnroll(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "section_id")
	if !ok {
		return
	}

	var req model.BulkEnrollRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollments, err := h.courseService.BulkEnroll(c.Request.Context(), sectionID, lecturerScope(claims), req.StudentIDs)
	if err != nil {
		failEnrollErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollments": enrollments})
}

// Unenroll godoc
// DELETE /api/v1/sections/:section_id/enrollments/:student_id
func (h *CourseHandler) Unenroll(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "section_id")
	if !ok {
		return
	}
	studentID, ok := pathIntID(c, "student_id")
	if !ok {
		return
	}

	if err := h.courseService.Unenroll(c.Request.Context(), sectionID, lecturerScope(claims), studentID); err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unenrolled": true})
}
