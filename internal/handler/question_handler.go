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

// QuestionHandler handles question management within a quiz, including
// bulk CSV import.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func failQuestionErr(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoCorrectAnswer) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"answers": err.Error()})
		return
	}
	if errors.Is(err, service.ErrQuestionNotInQuiz) {
		response.Fail(c, http.StatusNotFound, response.ErrQuestionNotInQuiz)
		return
	}
	failQuizErr(c, err)
}

// ListQuestions godoc
// GET /api/v1/quizzes/:quiz_id/questions
// Lecturer view: includes correct-answer flags and explanations.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	questions, err := h.questionService.ListByQuiz(c.Request.Context(), quizID, lecturerScope(claims))
	if err != nil {
		failQuestionErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// CreateQuestion godoc
// POST /api/v1/quizzes/:quiz_id/questions
// Rejected once the quiz has any attempt.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), quizID, lecturerScope(claims), &req)
	if err != nil {
		failQuestionErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// UpdateQuestion godoc
// PUT /api/v1/quizzes/:quiz_id/questions/:question_id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}
	questionID, ok := pathID(c, "question_id")
	if !ok {
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), quizID, questionID, lecturerScope(claims), &req)
	if err != nil {
		failQuestionErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// DeleteQuestion godoc
// DELETE /api/v1/quizzes/:quiz_id/questions/:question_id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}
	questionID, ok := pathID(c, "question_id")
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), quizID, questionID, lecturerScope(claims)); err != nil {
		failQuestionErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ImportQuestions godoc
// POST /api/v1/quizzes/:quiz_id/questions/import
// Multipart form with a "file" CSV. Valid rows are imported even when
// others fail; the per-row failures come back in the response.
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	result, err := h.questionService.ImportCSV(c.Request.Context(), quizID, lecturerScope(claims), file)
	if err != nil {
		failQuestionErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}
