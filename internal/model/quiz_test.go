package model

import (
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestQuizIsActive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		quiz Quiz
		want bool
	}{
		{
			name: "published without window",
			quiz: Quiz{Status: QuizStatusPublished},
			want: true,
		},
		{
			name: "draft never active",
			quiz: Quiz{Status: QuizStatusDraft},
			want: false,
		},
		{
			name: "closed never active",
			quiz: Quiz{Status: QuizStatusClosed},
			want: false,
		},
		{
			name: "before start",
			quiz: Quiz{Status: QuizStatusPublished, StartTime: timePtr(now.Add(time.Hour))},
			want: false,
		},
		{
			name: "after end",
			quiz: Quiz{Status: QuizStatusPublished, EndTime: timePtr(now.Add(-time.Hour))},
			want: false,
		},
		{
			name: "inside window",
			quiz: Quiz{
				Status:    QuizStatusPublished,
				StartTime: timePtr(now.Add(-time.Hour)),
				EndTime:   timePtr(now.Add(time.Hour)),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuizIsActive(&tt.quiz, now); got != tt.want {
				t.Errorf("QuizIsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuizIsUpcoming(t *testing.T) {
	now := time.Now()

	upcoming := Quiz{Status: QuizStatusPublished, StartTime: timePtr(now.Add(time.Hour))}
	if !QuizIsUpcoming(&upcoming, now) {
		t.Error("expected quiz with future start to be upcoming")
	}

	open := Quiz{Status: QuizStatusPublished, StartTime: timePtr(now.Add(-time.Hour))}
	if QuizIsUpcoming(&open, now) {
		t.Error("expected quiz with past start not to be upcoming")
	}

	draft := Quiz{Status: QuizStatusDraft, StartTime: timePtr(now.Add(time.Hour))}
	if QuizIsUpcoming(&draft, now) {
		t.Error("expected draft not to be upcoming")
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, maxScore, want float64
	}{
		{0, 0, 0},       // zero max score guards division
		{5, 10, 50},
		{10, 10, 100},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{7.5, 10, 75},
	}

	for _, tt := range tests {
		if got := Percentage(tt.score, tt.maxScore); got != tt.want {
			t.Errorf("Percentage(%v, %v) = %v, want %v", tt.score, tt.maxScore, got, tt.want)
		}
	}
}

func TestPassedAgainst(t *testing.T) {
	if got := PassedAgainst(80, nil); got != nil {
		t.Errorf("expected nil without passing score, got %v", *got)
	}

	threshold := 70.0
	if got := PassedAgainst(70, &threshold); got == nil || !*got {
		t.Error("expected pass at exactly the threshold")
	}
	if got := PassedAgainst(69.99, &threshold); got == nil || *got {
		t.Error("expected fail just below the threshold")
	}
}
