package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/validator"
)

// AttemptHandler handles the student attempt flow plus the lecturer
// results and statistics views.
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

func failAttemptErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrActiveAttempt):
		response.Fail(c, http.StatusConflict, response.ErrAttemptActive)
	case errors.Is(err, repository.ErrMaxAttempts):
		response.Fail(c, http.StatusConflict, response.ErrMaxAttempts)
	case errors.Is(err, service.ErrNotVisible):
		response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
	case errors.Is(err, service.ErrNotAttemptOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotResourceOwner)
	case errors.Is(err, service.ErrAttemptFinished), errors.Is(err, repository.ErrNotInProgress):
		response.Fail(c, http.StatusConflict, response.ErrAttemptFinished)
	case errors.Is(err, service.ErrAttemptInProgress):
		response.Fail(c, http.StatusConflict, response.ErrAttemptInProgress)
	case errors.Is(err, service.ErrResultsHidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrQuizNotOpen):
		response.Fail(c, http.StatusConflict, response.ErrQuizNotAvailable)
	case errors.Is(err, service.ErrQuestionNotInQuiz):
		response.Fail(c, http.StatusBadRequest, response.ErrQuestionNotInQuiz)
	case errors.Is(err, service.ErrNotOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotResourceOwner)
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// ─── Student flow ────────────────────────────────────────────────────────

// QuizStartView godoc
// GET /api/v1/quizzes/:quiz_id/start
// Returns the shuffled question view for an open quiz without creating
// an attempt. Correct answers are never included.
func (h *AttemptHandler) QuizStartView(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	payload, err := h.attemptService.StartView(c.Request.Context(), quizID, claims.RoleID)
	if err != nil {
		failAttemptErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, payload)
}

// StartAttempt godoc
// POST /api/v1/attempts
// Creates an attempt and returns the (possibly shuffled) quiz payload
// plus the hard deadline.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	started, err := h.attemptService.Start(
		c.Request.Context(), req.QuizID, claims.RoleID,
		c.ClientIP(), c.Request.UserAgent(),
	)
	if err != nil {
		failAttemptErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"attempt":  started.Submission,
		"quiz":     started.Payload,
		"deadline": started.Deadline,
	})
}

// SubmitAnswer godoc
// PUT /api/v1/attempts/:attempt_id/answers
// Saves or overwrites the answer to one question. Auto-graded types are
// scored immediately against the Redis answer key.
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	attemptID, ok := pathID(c, "attempt_id")
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.attemptService.Answer(c.Request.Context(), attemptID, claims.RoleID, &req)
	if err != nil {
		failAttemptErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"response": resp})
}

// FlagQuestion godoc
// POST /api/v1/attempts/:attempt_id/flag
func (h *AttemptHandler) FlagQuestion(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	attemptID, ok := pathID(c, "attempt_id")
	if !ok {
		return
	}

	var req model.FlagQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.attemptService.Flag(c.Request.Context(), attemptID, claims.RoleID, &req); err != nil {
		failAttemptErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"flagged": true})
}

// SubmitAttempt godoc
// POST /api/v1/attempts/:attempt_id/submit
// Finalizes the attempt and computes the auto-graded score.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	attemptID, ok := pathID(c, "attempt_id")
	if !ok {
		return
	}

	submission, err := h.attemptService.Submit(c.Request.Context(), attemptID, claims.RoleID)
	if err != nil {
		failAttemptErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": submission})
}

// AttemptProgress godoc
// GET /api/v1/attempts/:attempt_id/progress
func (h *AttemptHandler) AttemptProgress(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	attemptID, ok := pathID(c, "attempt_id")
	if !ok {
		return
	}

	progress, err := h.attemptService.Progress(c.Request.Context(), attemptID, claims.RoleID)
	if err != nil {
		failAttemptErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": progress})
}

// AttemptResult godoc
// GET /api/v1/attempts/:attempt_id/result
// Available after submission, subject to the quiz's show_results flag.
func (h *AttemptHandler) AttemptResult(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	attemptID, ok := pathID(c, "attempt_id")
	if !ok {
		return
	}

	result, err := h.attemptService.Result(c.Request.Context(), attemptID, claims.RoleID)
	if err != nil {
		failAttemptErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// ListMyAttempts godoc
// GET /api/v1/student/attempts?quiz_id=...
func (h *AttemptHandler) ListMyAttempts(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var quizID *uuid.UUID
	if raw := c.Query("quiz_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		quizID = &id
	}

	attempts, err := h.attemptService.ListMine(c.Request.Context(), claims.RoleID, quizID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// ─── Lecturer views ──────────────────────────────────────────────────────

// ListResults godoc
// GET /api/v1/quizzes/:quiz_id/results
func (h *AttemptHandler) ListResults(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	results, pagination, err := h.attemptService.ListResults(c.Request.Context(), quizID, lecturerScope(claims), page, perPage)
	if err != nil {
		failAttemptErr(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"results": results}, pagination)
}

// QuizAggregate godoc
// GET /api/v1/quizzes/:quiz_id/results/summary
func (h *AttemptHandler) QuizAggregate(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	aggregate, err := h.attemptService.Aggregate(c.Request.Context(), quizID, lecturerScope(claims))
	if err != nil {
		failAttemptErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": aggregate})
}

// QuestionStats godoc
// GET /api/v1/quizzes/:quiz_id/results/questions
// Per-question correctness ratios with Easy/Medium/Hard difficulty labels.
func (h *AttemptHandler) QuestionStats(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	stats, err := h.attemptService.QuestionStats(c.Request.Context(), quizID, lecturerScope(claims))
	if err != nil {
		failAttemptErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": stats})
}
