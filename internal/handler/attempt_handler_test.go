package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
)

func attemptErrResponse(t *testing.T, err error) (int, response.ErrCode) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/attempts", nil)

	failAttemptErr(c, err)

	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error == nil {
		t.Fatal("expected error body")
	}
	return w.Code, body.Error.Code
}

func TestAttemptErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   response.ErrCode
	}{
		{"question not in quiz", service.ErrQuestionNotInQuiz, http.StatusBadRequest, response.ErrQuestionNotInQuiz},
		{"active attempt", repository.ErrActiveAttempt, http.StatusConflict, response.ErrAttemptActive},
		{"max attempts", repository.ErrMaxAttempts, http.StatusConflict, response.ErrMaxAttempts},
		{"finalize race", repository.ErrNotInProgress, http.StatusConflict, response.ErrAttemptFinished},
		{"attempt finished", service.ErrAttemptFinished, http.StatusConflict, response.ErrAttemptFinished},
		{"not visible", service.ErrNotVisible, http.StatusForbidden, response.ErrNotEnrolled},
		{"missing attempt", pgx.ErrNoRows, http.StatusNotFound, response.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := attemptErrResponse(t, tc.err)
			if status != tc.wantStatus {
				t.Errorf("status %d, want %d", status, tc.wantStatus)
			}
			if code != tc.wantCode {
				t.Errorf("code %s, want %s", code, tc.wantCode)
			}
		})
	}
}
