package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

func TestAttemptDeadline(t *testing.T) {
	started := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	limit := 30
	end := started.Add(20 * time.Minute)
	farEnd := started.Add(2 * time.Hour)

	t.Run("no limit no end", func(t *testing.T) {
		if got := attemptDeadline(&model.Quiz{}, started); got != nil {
			t.Errorf("expected nil deadline, got %v", got)
		}
	})

	t.Run("time limit only", func(t *testing.T) {
		got := attemptDeadline(&model.Quiz{TimeLimitMinutes: &limit}, started)
		want := started.Add(30 * time.Minute)
		if got == nil || !got.Equal(want) {
			t.Errorf("deadline = %v, want %v", got, want)
		}
	})

	t.Run("end time wins when earlier", func(t *testing.T) {
		got := attemptDeadline(&model.Quiz{TimeLimitMinutes: &limit, EndTime: &end}, started)
		if got == nil || !got.Equal(end) {
			t.Errorf("deadline = %v, want quiz end %v", got, end)
		}
	})

	t.Run("time limit wins when earlier", func(t *testing.T) {
		got := attemptDeadline(&model.Quiz{TimeLimitMinutes: &limit, EndTime: &farEnd}, started)
		want := started.Add(30 * time.Minute)
		if got == nil || !got.Equal(want) {
			t.Errorf("deadline = %v, want %v", got, want)
		}
	})
}

func buildPayloadFixture(nQuestions, nAnswers int) *model.QuizPayload {
	p := &model.QuizPayload{QuizID: uuid.New()}
	for i := 0; i < nQuestions; i++ {
		q := model.QuestionForStudent{ID: uuid.New(), OrderIndex: i}
		for j := 0; j < nAnswers; j++ {
			q.Answers = append(q.Answers, model.AnswerOptionForStudent{ID: uuid.New(), OrderIndex: j})
		}
		p.Questions = append(p.Questions, q)
	}
	return p
}

func TestShufflePayloadPreservesContent(t *testing.T) {
	original := buildPayloadFixture(10, 4)
	original.ShuffleQuestions = true
	original.ShuffleAnswers = true

	shuffled := shufflePayload(original)

	if len(shuffled.Questions) != len(original.Questions) {
		t.Fatalf("question count changed: %d", len(shuffled.Questions))
	}

	// Same question set, regardless of order.
	seen := make(map[uuid.UUID]bool)
	for _, q := range shuffled.Questions {
		seen[q.ID] = true
		if len(q.Answers) != 4 {
			t.Errorf("question %s lost answers: %d", q.ID, len(q.Answers))
		}
	}
	for _, q := range original.Questions {
		if !seen[q.ID] {
			t.Errorf("question %s missing after shuffle", q.ID)
		}
	}

	// The original payload must not be reordered in place: it is the
	// shared cached copy.
	for i, q := range original.Questions {
		if q.OrderIndex != i {
			t.Fatalf("original payload mutated at index %d", i)
		}
	}
}

func TestShufflePayloadNoopWithoutFlags(t *testing.T) {
	original := buildPayloadFixture(3, 2)

	if shuffled := shufflePayload(original); shuffled != original {
		t.Error("expected the same payload pointer when shuffling is disabled")
	}
}

func TestValidateAnswerSet(t *testing.T) {
	oneCorrect := []model.Answer{{IsCorrect: true}, {IsCorrect: false}}
	noCorrect := []model.Answer{{IsCorrect: false}, {IsCorrect: false}}
	twoCorrect := []model.Answer{{IsCorrect: true}, {IsCorrect: true}}

	if err := validateAnswerSet(model.QuestionTypeMultipleChoice, oneCorrect); err != nil {
		t.Errorf("one correct answer should pass: %v", err)
	}
	if err := validateAnswerSet(model.QuestionTypeMultipleChoice, noCorrect); err == nil {
		t.Error("no correct answer should fail for auto-graded types")
	}
	if err := validateAnswerSet(model.QuestionTypeTrueFalse, twoCorrect); err == nil {
		t.Error("two correct answers should fail for auto-graded types")
	}
	if err := validateAnswerSet(model.QuestionTypeEssay, noCorrect); err != nil {
		t.Errorf("essays have no answer key and should pass: %v", err)
	}
}

func TestClampPaging(t *testing.T) {
	tests := []struct {
		page, perPage         int
		wantPage, wantPerPage int
	}{
		{0, 0, 1, 10},
		{-5, -1, 1, 10},
		{2, 25, 2, 25},
		{1, 500, 1, 100},
	}

	for _, tt := range tests {
		page, perPage := clampPaging(tt.page, tt.perPage)
		if page != tt.wantPage || perPage != tt.wantPerPage {
			t.Errorf("clampPaging(%d, %d) = (%d, %d), want (%d, %d)",
				tt.page, tt.perPage, page, perPage, tt.wantPage, tt.wantPerPage)
		}
	}
}

func TestBuildPagination(t *testing.T) {
	p := buildPagination(2, 10, 25)
	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
	if p.TotalItems != 25 || p.Page != 2 || p.PerPage != 10 {
		t.Errorf("unexpected pagination: %+v", p)
	}

	if empty := buildPagination(1, 10, 0); empty.TotalPages != 0 {
		t.Errorf("TotalPages for empty set = %d, want 0", empty.TotalPages)
	}
}
