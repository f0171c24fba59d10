package model

import "testing"

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func TestAutoGradedScore(t *testing.T) {
	responses := []Response{
		{IsCorrect: boolPtr(true), PointsEarned: floatPtr(2)},
		{IsCorrect: boolPtr(false), PointsEarned: floatPtr(0)},
		{IsCorrect: boolPtr(true), PointsEarned: floatPtr(1.5)},
		// Ungraded essay: no correctness, no points yet.
		{IsCorrect: nil, PointsEarned: nil},
		// Correctness known but points missing contributes nothing.
		{IsCorrect: boolPtr(true), PointsEarned: nil},
	}

	if got := AutoGradedScore(responses); got != 3.5 {
		t.Errorf("AutoGradedScore() = %v, want 3.5", got)
	}

	if got := AutoGradedScore(nil); got != 0 {
		t.Errorf("AutoGradedScore(nil) = %v, want 0", got)
	}
}

func TestLectureIsCompleted(t *testing.T) {
	tests := []struct {
		seconds  int
		scrolled bool
		want     bool
	}{
		{MinLectureReadSeconds, true, true},
		{MinLectureReadSeconds - 1, true, false},
		{MinLectureReadSeconds * 2, false, false},
		{0, false, false},
	}

	for _, tt := range tests {
		if got := LectureIsCompleted(tt.seconds, tt.scrolled); got != tt.want {
			t.Errorf("LectureIsCompleted(%d, %v) = %v, want %v", tt.seconds, tt.scrolled, got, tt.want)
		}
	}
}
