package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
)

// ErrNoCorrectAnswer is returned when an auto-graded question is saved
// without exactly one option marked correct.
var ErrNoCorrectAnswer = errors.New("auto-graded question needs exactly one correct answer")

// QuestionService handles question management and CSV import.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	quizRepo     *repository.QuizRepository
	quizzes      *QuizService
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	quizRepo *repository.QuizRepository,
	quizzes *QuizService,
	log zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		quizRepo:     quizRepo,
		quizzes:      quizzes,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// ListByQuiz retrieves a quiz's questions with answers, for the owning
// lecturer.
func (s *QuestionService) ListByQuiz(ctx context.Context, quizID uuid.UUID, lecturerID int) ([]model.Question, error) {
	if _, err := s.ownedQuiz(ctx, quizID, lecturerID); err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

// Create adds a question to a quiz. Mutation is allowed only while the quiz
// has no attempts.
func (s *QuestionService) Create(ctx context.Context, quizID uuid.UUID, lecturerID int, req *model.CreateQuestionRequest) (*model.Question, error) {
	quiz, err := s.mutableQuiz(ctx, quizID, lecturerID)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		QuizID:           quizID,
		QuestionText:     req.QuestionText,
		QuestionType:     model.QuestionType(req.QuestionType),
		Points:           req.Points,
		OrderIndex:       req.OrderIndex,
		IsRequired:       true,
		TimeLimitSeconds: req.TimeLimitSeconds,
		Explanation:      req.Explanation,
		Answers:          answersFromInput(req.Answers),
	}
	if req.IsRequired != nil {
		question.IsRequired = *req.IsRequired
	}
	if err := validateAnswerSet(question.QuestionType, question.Answers); err != nil {
		return nil, err
	}

	if err := s.questionRepo.CreateWithAnswers(ctx, question); err != nil {
		return nil, err
	}
	s.refreshIfPublished(ctx, quiz)
	return question, nil
}

// Update applies changes to a question. A non-nil answer slice replaces the
// existing options.
func (s *QuestionService) Update(ctx context.Context, quizID, questionID uuid.UUID, lecturerID int, req *model.UpdateQuestionRequest) (*model.Question, error) {
	quiz, err := s.mutableQuiz(ctx, quizID, lecturerID)
	if err != nil {
		return nil, err
	}
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.QuizID != quizID {
		return nil, ErrQuestionNotInQuiz
	}

	if req.QuestionText != "" {
		question.QuestionText = req.QuestionText
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.OrderIndex != nil {
		question.OrderIndex = *req.OrderIndex
	}
	if req.IsRequired != nil {
		question.IsRequired = *req.IsRequired
	}
	if req.TimeLimitSeconds != nil {
		question.TimeLimitSeconds = req.TimeLimitSeconds
	}
	if req.Explanation != "" {
		question.Explanation = req.Explanation
	}

	replaceAnswers := req.Answers != nil
	if replaceAnswers {
		question.Answers = answersFromInput(req.Answers)
		if err := validateAnswerSet(question.QuestionType, question.Answers); err != nil {
			return nil, err
		}
	}

	if err := s.questionRepo.UpdateWithAnswers(ctx, question, replaceAnswers); err != nil {
		return nil, err
	}
	s.refreshIfPublished(ctx, quiz)
	return question, nil
}

// Delete removes a question from a quiz without attempts.
func (s *QuestionService) Delete(ctx context.Context, quizID, questionID uuid.UUID, lecturerID int) error {
	quiz, err := s.mutableQuiz(ctx, quizID, lecturerID)
	if err != nil {
		return err
	}
	if err := s.questionRepo.Delete(ctx, questionID, quizID); err != nil {
		return err
	}
	s.refreshIfPublished(ctx, quiz)
	return nil
}

// ─── CSV import ────────────────────────────────────────────────────────

// ImportRowError describes why one CSV row was rejected.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a CSV import: rows imported, rows rejected.
type ImportResult struct {
	Imported int              `json:"imported"`
	Failed   []ImportRowError `json:"failed,omitempty"`
}

// csvImportRow is one parsed multiple-choice question from the import file.
type csvImportRow struct {
	QuestionText  string
	Options       [4]string
	CorrectLetter byte // 'A'..'D'
	Points        float64

	sourceRow int
}

// ImportCSV loads multiple-choice questions from a CSV stream into a quiz.
// Valid rows are inserted even when other rows fail; the result reports
// both sides. Expected columns:
//
//	question_text, answer_a, answer_b, answer_c, answer_d, correct_letter[, points]
func (s *QuestionService) ImportCSV(ctx context.Context, quizID uuid.UUID, lecturerID int, r io.Reader) (*ImportResult, error) {
	quiz, err := s.mutableQuiz(ctx, quizID, lecturerID)
	if err != nil {
		return nil, err
	}

	rows, rowErrs, err := ParseQuestionCSV(r)
	if err != nil {
		return nil, err
	}

	orderBase, err := s.questionRepo.MaxOrderIndex(ctx, quizID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Failed: rowErrs}
	for i, row := range rows {
		question := &model.Question{
			QuizID:       quizID,
			QuestionText: row.QuestionText,
			QuestionType: model.QuestionTypeMultipleChoice,
			Points:       row.Points,
			OrderIndex:   orderBase + 1 + i,
			IsRequired:   true,
			Answers:      make([]model.Answer, 0, 4),
		}
		for j, opt := range row.Options {
			question.Answers = append(question.Answers, model.Answer{
				AnswerText: opt,
				IsCorrect:  byte('A'+j) == row.CorrectLetter,
				OrderIndex: j,
			})
		}
		if err := s.questionRepo.CreateWithAnswers(ctx, question); err != nil {
			result.Failed = append(result.Failed, ImportRowError{Row: row.sourceRow, Reason: err.Error()})
			continue
		}
		result.Imported++
	}

	s.refreshIfPublished(ctx, quiz)
	s.log.Info().
		Str("quiz_id", quizID.String()).
		Int("imported", result.Imported).
		Int("failed", len(result.Failed)).
		Msg("CSV import finished")
	return result, nil
}

// ParseQuestionCSV reads and validates the import format without touching
// the database. Row numbers in errors are 1-based and include the header.
func ParseQuestionCSV(r io.Reader) ([]csvImportRow, []ImportRowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validated per row; points column is optional
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.New("empty csv file")
	}

	// Skip the header row if the first cell looks like one.
	start := 0
	if strings.EqualFold(strings.TrimSpace(records[0][0]), "question_text") {
		start = 1
	}

	var rows []csvImportRow
	var rowErrs []ImportRowError
	for i := start; i < len(records); i++ {
		record := records[i]
		rowNum := i + 1

		row, reason := parseImportRecord(record)
		if reason != "" {
			rowErrs = append(rowErrs, ImportRowError{Row: rowNum, Reason: reason})
			continue
		}
		row.sourceRow = rowNum
		rows = append(rows, *row)
	}
	return rows, rowErrs, nil
}

func parseImportRecord(record []string) (*csvImportRow, string) {
	if len(record) < 6 {
		return nil, "expected at least 6 columns"
	}

	row := &csvImportRow{Points: 1}
	row.QuestionText = strings.TrimSpace(record[0])
	if row.QuestionText == "" {
		return nil, "question_text is empty"
	}
	for j := 0; j < 4; j++ {
		row.Options[j] = strings.TrimSpace(record[1+j])
		if row.Options[j] == "" {
			return nil, fmt.Sprintf("answer_%c is empty", 'a'+j)
		}
	}

	letter := strings.ToUpper(strings.TrimSpace(record[5]))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'D' {
		return nil, "correct_letter must be one of A, B, C, D"
	}
	row.CorrectLetter = letter[0]

	if len(record) > 6 && strings.TrimSpace(record[6]) != "" {
		var points float64
		if _, err := fmt.Sscanf(strings.TrimSpace(record[6]), "%f", &points); err != nil || points <= 0 {
			return nil, "points must be a positive number"
		}
		row.Points = points
	}
	return row, ""
}

// ─── helpers ───────────────────────────────────────────────────────────

func answersFromInput(inputs []model.AnswerInput) []model.Answer {
	answers := make([]model.Answer, len(inputs))
	for i, in := range inputs {
		answers[i] = model.Answer{
			AnswerText:  in.AnswerText,
			IsCorrect:   in.IsCorrect,
			OrderIndex:  in.OrderIndex,
			Explanation: in.Explanation,
		}
	}
	return answers
}

func validateAnswerSet(t model.QuestionType, answers []model.Answer) error {
	if !model.IsAutoGraded(t) {
		return nil
	}
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return ErrNoCorrectAnswer
	}
	return nil
}

// mutableQuiz loads the quiz and asserts its question set may change:
// owned by the lecturer and without submissions.
func (s *QuestionService) mutableQuiz(ctx context.Context, quizID uuid.UUID, lecturerID int) (*model.Quiz, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, lecturerID)
	if err != nil {
		return nil, err
	}
	if quiz.Status == model.QuizStatusClosed {
		return nil, ErrQuizClosed
	}
	has, err := s.quizRepo.HasSubmissions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, ErrQuizHasAttempts
	}
	return quiz, nil
}

func (s *QuestionService) ownedQuiz(ctx context.Context, quizID uuid.UUID, lecturerID int) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if lecturerID != 0 && quiz.LecturerID != lecturerID {
		return nil, ErrNotOwner
	}
	return quiz, nil
}

// refreshIfPublished re-warms the Redis cache after a question change on a
// published quiz, so the cached payload never lags the database.
func (s *QuestionService) refreshIfPublished(ctx context.Context, quiz *model.Quiz) {
	if quiz.Status != model.QuizStatusPublished {
		return
	}
	if err := s.quizzes.WarmQuizCache(ctx, quiz); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("Cache refresh after question change failed")
	}
}
