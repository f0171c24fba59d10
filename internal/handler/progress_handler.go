package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/validator"
)

// ProgressHandler handles lecture reading progress and section
// completion rollups.
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// ReportProgress godoc
// PUT /api/v1/lectures/:lecture_id/progress
// Accumulates reading time; a lecture completes once the student has
// both scrolled to the bottom and read long enough.
func (h *ProgressHandler) ReportProgress(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	lectureID, ok := pathID(c, "lecture_id")
	if !ok {
		return
	}

	var req model.UpdateProgressRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	progress, err := h.progressService.ReportLecture(c.Request.Context(), claims.RoleID, lectureID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotVisible):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": progress})
}

// GetLectureProgress godoc
// GET /api/v1/lectures/:lecture_id/progress
func (h *ProgressHandler) GetLectureProgress(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	lectureID, ok := pathID(c, "lecture_id")
	if !ok {
		return
	}

	progress, err := h.progressService.GetLecture(c.Request.Context(), claims.RoleID, lectureID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": progress})
}

// GetSectionProgress godoc
// GET /api/v1/sections/:section_id/progress/me
func (h *ProgressHandler) GetSectionProgress(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "section_id")
	if !ok {
		return
	}

	progress, err := h.progressService.GetSection(c.Request.Context(), claims.RoleID, sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": progress})
}

// ListSectionProgress godoc
// GET /api/v1/sections/:section_id/progress
// Lecturer view: rollups for every enrolled student.
func (h *ProgressHandler) ListSectionProgress(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "section_id")
	if !ok {
		return
	}

	progress, err := h.progressService.ListSection(c.Request.Context(), sectionID, lecturerScope(claims))
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": progress})
}
