package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/validator"
)

// LectureHandler handles lecture content CRUD and detail views.
type LectureHandler struct {
	lectureService *service.LectureService
}

// NewLectureHandler creates a new LectureHandler.
func NewLectureHandler(lectureService *service.LectureService) *LectureHandler {
	return &LectureHandler{lectureService: lectureService}
}

// ListLectures godoc
// GET /api/v1/chapters/:chapter_id/lectures
// Students see only published lectures; staff see drafts too.
func (h *LectureHandler) ListLectures(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	chapterID, ok := pathID(c, "chapter_id")
	if !ok {
		return
	}

	publishedOnly := claims.Role == model.RoleStudent
	lectures, err := h.lectureService.ListByChapter(c.Request.Context(), chapterID, publishedOnly)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lectures": lectures})
}

// GetLecture godoc
// GET /api/v1/lectures/:lecture_id
func (h *LectureHandler) GetLecture(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "lecture_id")
	if !ok {
		return
	}

	publishedOnly := claims.Role == model.RoleStudent
	lecture, err := h.lectureService.GetByID(c.Request.Context(), id, publishedOnly)
	if err != nil {
		if errors.Is(err, service.ErrLectureNotPublished) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lecture": lecture})
}

// CreateLecture godoc
// POST /api/v1/chapters/:chapter_id/lectures
// New lectures start unpublished.
func (h *LectureHandler) CreateLecture(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	chapterID, ok := pathID(c, "chapter_id")
	if !ok {
		return
	}

	var req model.CreateLectureRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lecture, err := h.lectureService.Create(c.Request.Context(), chapterID, lecturerScope(claims), &req)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"lecture": lecture})
}

// UpdateLecture godoc
// PUT /api/v1/lectures/:lecture_id
// Publishing is a partial update: {"is_published": true}.
func (h *LectureHandler) UpdateLecture(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "lecture_id")
	if !ok {
		return
	}

	var req model.UpdateLectureRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lecture, err := h.lectureService.Update(c.Request.Context(), id, lecturerScope(claims), &req)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lecture": lecture})
}

// DeleteLecture godoc
// DELETE /api/v1/lectures/:lecture_id
func (h *LectureHandler) DeleteLecture(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "lecture_id")
	if !ok {
		return
	}

	if err := h.lectureService.Delete(c.Request.Context(), id, lecturerScope(claims)); err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
