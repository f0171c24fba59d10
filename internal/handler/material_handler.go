package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
)

// MaterialHandler handles uploaded course material files.
type MaterialHandler struct {
	materialService *service.MaterialService
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(materialService *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// Upload godoc
// POST /api/v1/sections/:section_id/materials
// Multipart form: file (required), title (required), description,
// lecture_id (optional UUID attaching the material to one lecture).
func (h *MaterialHandler) Upload(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "section_id")
	if !ok {
		return
	}

	title := c.PostForm("title")
	if title == "" {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"title": "title is required"})
		return
	}
	description := c.PostForm("description")

	var lectureID *uuid.UUID
	if raw := c.PostForm("lecture_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		lectureID = &id
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	material, err := h.materialService.Upload(
		c.Request.Context(), sectionID, lectureID, lecturerScope(claims),
		title, description, file, header,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		default:
			failCourseErr(c, err)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"material": material})
}

// ListMaterials godoc
// GET /api/v1/sections/:section_id/materials
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	sectionID, ok := pathID(c, "section_id")
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	materials, pagination, err := h.materialService.ListBySection(c.Request.Context(), sectionID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"materials": materials}, pagination)
}

// GetMaterial godoc
// GET /api/v1/materials/:material_id
func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	id, ok := pathID(c, "material_id")
	if !ok {
		return
	}

	material, err := h.materialService.GetByID(c.Request.Context(), id)
	if err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"material": material})
}

// DeleteMaterial godoc
// DELETE /api/v1/materials/:material_id
// Removes the metadata row and unlinks the stored file.
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "material_id")
	if !ok {
		return
	}

	if err := h.materialService.Delete(c.Request.Context(), id, lecturerScope(claims)); err != nil {
		failCourseErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
