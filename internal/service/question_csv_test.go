package service

import (
	"strings"
	"testing"
)

func TestParseQuestionCSV(t *testing.T) {
	csv := strings.Join([]string{
		"question_text,answer_a,answer_b,answer_c,answer_d,correct_letter,points",
		"What is 2+2?,3,4,5,6,B,2",
		"Capital of France?,Paris,London,Berlin,Madrid,A",
		",1,2,3,4,A",                  // empty question text
		"Half question,only,two,,,C",  // empty options
		"Bad letter,1,2,3,4,E",        // letter out of range
		"Bad points,1,2,3,4,A,zero",   // unparseable points
	}, "\n")

	rows, rowErrs, err := ParseQuestionCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseQuestionCSV() error = %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d valid rows, want 2", len(rows))
	}
	if len(rowErrs) != 4 {
		t.Fatalf("got %d row errors, want 4: %+v", len(rowErrs), rowErrs)
	}

	first := rows[0]
	if first.QuestionText != "What is 2+2?" {
		t.Errorf("question text = %q", first.QuestionText)
	}
	if first.CorrectLetter != 'B' {
		t.Errorf("correct letter = %c, want B", first.CorrectLetter)
	}
	if first.Points != 2 {
		t.Errorf("points = %v, want 2", first.Points)
	}
	if first.sourceRow != 2 {
		t.Errorf("source row = %d, want 2 (header counts)", first.sourceRow)
	}

	// Points column omitted defaults to 1.
	if rows[1].Points != 1 {
		t.Errorf("default points = %v, want 1", rows[1].Points)
	}

	// Row numbers in errors are 1-based and include the header.
	if rowErrs[0].Row != 4 {
		t.Errorf("first error row = %d, want 4", rowErrs[0].Row)
	}
}

func TestParseQuestionCSVWithoutHeader(t *testing.T) {
	csv := "What is 1+1?,1,2,3,4,B\n"

	rows, rowErrs, err := ParseQuestionCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseQuestionCSV() error = %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors: %+v", rowErrs)
	}
	if len(rows) != 1 || rows[0].sourceRow != 1 {
		t.Fatalf("got %d rows, want 1 with sourceRow 1", len(rows))
	}
}

func TestParseQuestionCSVEmpty(t *testing.T) {
	if _, _, err := ParseQuestionCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestParseQuestionCSVLowercaseLetter(t *testing.T) {
	rows, rowErrs, err := ParseQuestionCSV(strings.NewReader("Q?,1,2,3,4,c\n"))
	if err != nil {
		t.Fatalf("ParseQuestionCSV() error = %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors: %+v", rowErrs)
	}
	if rows[0].CorrectLetter != 'C' {
		t.Errorf("correct letter = %c, want C (case folded)", rows[0].CorrectLetter)
	}
}
