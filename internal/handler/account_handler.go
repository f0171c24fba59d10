package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/validator"
)

// AccountHandler handles admin management of student and lecturer
// accounts.
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func pathIntID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// ─── Students ────────────────────────────────────────────────────────────

// ListStudents godoc
// GET /api/v1/admin/students
func (h *AccountHandler) ListStudents(c *gin.Context) {
	page, perPage := pageParams(c)
	search := c.Query("search")

	students, pagination, err := h.accountService.ListStudents(c.Request.Context(), search, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": students}, pagination)
}

// GetStudent godoc
// GET /api/v1/admin/students/:student_id
func (h *AccountHandler) GetStudent(c *gin.Context) {
	id, ok := pathIntID(c, "student_id")
	if !ok {
		return
	}

	student, err := h.accountService.GetStudent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// CreateStudent godoc
// POST /api/v1/admin/students
// Creates the login account and the student profile in one transaction.
func (h *AccountHandler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, student, err := h.accountService.CreateStudent(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateAccount) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"account": account, "student": student})
}

// UpdateStudent godoc
// PUT /api/v1/admin/students/:student_id
func (h *AccountHandler) UpdateStudent(c *gin.Context) {
	id, ok := pathIntID(c, "student_id")
	if !ok {
		return
	}

	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.accountService.UpdateStudent(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// DeleteStudent godoc
// DELETE /api/v1/admin/students/:student_id
// Removes the student profile and its login account.
func (h *AccountHandler) DeleteStudent(c *gin.Context) {
	id, ok := pathIntID(c, "student_id")
	if !ok {
		return
	}

	if err := h.accountService.DeleteStudent(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ─── Lecturers ───────────────────────────────────────────────────────────

// ListLecturers godoc
// GET /api/v1/admin/lecturers
func (h *AccountHandler) ListLecturers(c *gin.Context) {
	page, perPage := pageParams(c)

	lecturers, pagination, err := h.accountService.ListLecturers(c.Request.Context(), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"lecturers": lecturers}, pagination)
}

// GetLecturer godoc
// GET /api/v1/admin/lecturers/:lecturer_id
func (h *AccountHandler) GetLecturer(c *gin.Context) {
	id, ok := pathIntID(c, "lecturer_id")
	if !ok {
		return
	}

	lecturer, err := h.accountService.GetLecturer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lecturer": lecturer})
}

// CreateLecturer godoc
// POST /api/v1/admin/lecturers
func (h *AccountHandler) CreateLecturer(c *gin.Context) {
	var req model.CreateLecturerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, lecturer, err := h.accountService.CreateLecturer(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateAccount) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"account": account, "lecturer": lecturer})
}

// UpdateLecturer godoc
// PUT /api/v1/admin/lecturers/:lecturer_id
func (h *AccountHandler) UpdateLecturer(c *gin.Context) {
	id, ok := pathIntID(c, "lecturer_id")
	if !ok {
		return
	}

	var req model.UpdateLecturerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lecturer, err := h.accountService.UpdateLecturer(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lecturer": lecturer})
}

// SetAccountActive godoc
// PATCH /api/v1/admin/accounts/:account_id/active
// Enables or disables a login account without deleting its profile.
func (h *AccountHandler) SetAccountActive(c *gin.Context) {
	id, ok := pathIntID(c, "account_id")
	if !ok {
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.accountService.SetAccountActive(c.Request.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"account_id": id, "is_active": *req.IsActive})
}
