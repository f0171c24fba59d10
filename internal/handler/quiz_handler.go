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

// QuizHandler handles quiz lifecycle endpoints for lecturers and the
// published-quiz listing for students.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func failQuizErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotResourceOwner)
	case errors.Is(err, service.ErrQuizNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrQuizNotDraft)
	case errors.Is(err, service.ErrQuizNotOpen):
		response.Fail(c, http.StatusConflict, response.ErrQuizNotAvailable)
	case errors.Is(err, service.ErrQuizClosed):
		response.Fail(c, http.StatusConflict, response.ErrQuizClosed)
	case errors.Is(err, service.ErrQuizHasAttempts):
		response.Fail(c, http.StatusConflict, response.ErrQuizHasAttempts)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// ListQuizzes godoc
// GET /api/v1/quizzes?status=draft|published|closed
// Admins see all quizzes; lecturers see only their own.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	var status *model.QuizStatus
	if raw := c.Query("status"); raw != "" {
		s := model.QuizStatus(raw)
		if s != model.QuizStatusDraft && s != model.QuizStatusPublished && s != model.QuizStatusClosed {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"status": "must be draft, published, or closed"})
			return
		}
		status = &s
	}

	quizzes, pagination, err := h.quizService.List(c.Request.Context(), lecturerFilter(claims), status, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"quizzes": quizzes}, pagination)
}

// ListAvailableQuizzes godoc
// GET /api/v1/student/quizzes
// Lists published quizzes visible to the calling student through their
// active enrollments.
func (h *QuizHandler) ListAvailableQuizzes(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListForStudent(c.Request.Context(), claims.RoleID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// GetQuiz godoc
// GET /api/v1/quizzes/:quiz_id
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetByID(c.Request.Context(), id)
	if err != nil {
		failQuizErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// CreateQuiz godoc
// POST /api/v1/quizzes
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), lecturerScope(claims), &req)
	if err != nil {
		failQuizErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// UpdateQuiz godoc
// PUT /api/v1/quizzes/:quiz_id
// Only draft quizzes can be edited.
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	var req model.UpdateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), id, lecturerScope(claims), &req)
	if err != nil {
		failQuizErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// DeleteQuiz godoc
// DELETE /api/v1/quizzes/:quiz_id
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), id, lecturerScope(claims)); err != nil {
		failQuizErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// PublishQuiz godoc
// POST /api/v1/quizzes/:quiz_id/publish
// Warms the Redis payload and answer-key caches, then flips the status.
func (h *QuizHandler) PublishQuiz(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	quiz, err := h.quizService.Publish(c.Request.Context(), id, lecturerScope(claims))
	if err != nil {
		failQuizErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// CloseQuiz godoc
// POST /api/v1/quizzes/:quiz_id/close
// Force-submits every in-progress attempt and drops the caches.
func (h *QuizHandler) CloseQuiz(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	quiz, err := h.quizService.Close(c.Request.Context(), id, lecturerScope(claims))
	if err != nil {
		failQuizErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}
