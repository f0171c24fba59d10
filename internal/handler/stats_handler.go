package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
)

// StatsHandler serves the role-specific dashboard summaries.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// AdminDashboard godoc
// GET /api/v1/admin/dashboard
func (h *StatsHandler) AdminDashboard(c *gin.Context) {
	dashboard, err := h.statsService.AdminDashboard(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"dashboard": dashboard})
}

// LecturerDashboard godoc
// GET /api/v1/lecturer/dashboard
func (h *StatsHandler) LecturerDashboard(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	dashboard, err := h.statsService.LecturerDashboard(c.Request.Context(), claims.RoleID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"dashboard": dashboard})
}

// StudentDashboard godoc
// GET /api/v1/student/dashboard
func (h *StatsHandler) StudentDashboard(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	dashboard, err := h.statsService.StudentDashboard(c.Request.Context(), claims.RoleID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"dashboard": dashboard})
}
