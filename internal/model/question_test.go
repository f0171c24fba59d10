package model

import "testing"

func TestIsAutoGraded(t *testing.T) {
	autoGraded := map[QuestionType]bool{
		QuestionTypeMultipleChoice: true,
		QuestionTypeTrueFalse:      true,
		QuestionTypeShortAnswer:    false,
		QuestionTypeEssay:          false,
		QuestionTypeFillBlank:      false,
	}

	for qt, want := range autoGraded {
		if got := IsAutoGraded(qt); got != want {
			t.Errorf("IsAutoGraded(%s) = %v, want %v", qt, got, want)
		}
	}
}

func TestDifficultyLabel(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1.0, "Easy"},
		{0.81, "Easy"},
		{0.8, "Medium"}, // boundary falls to the lower bucket
		{0.7, "Medium"},
		{0.6, "Hard"},
		{0.3, "Hard"},
		{0, "Hard"},
	}

	for _, tt := range tests {
		if got := DifficultyLabel(tt.ratio); got != tt.want {
			t.Errorf("DifficultyLabel(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}
