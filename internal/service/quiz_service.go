package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/config"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
)

// Domain errors for the quiz lifecycle.
var (
	ErrNoQuestions     = errors.New("quiz has no questions, cannot publish")
	ErrQuizNotDraft    = errors.New("quiz status is not draft")
	ErrQuizNotOpen     = errors.New("quiz is not open for attempts")
	ErrQuizClosed      = errors.New("quiz is already closed")
	ErrQuizHasAttempts = errors.New("quiz already has attempts")
	// ErrQuestionNotInQuiz rejects answers and edits addressed to a
	// question that belongs to a different quiz.
	ErrQuestionNotInQuiz = errors.New("question does not belong to quiz")
)

// answerKeyEntry is one question's grading data in the cached answer key.
type answerKeyEntry struct {
	AnswerID uuid.UUID          `json:"answer_id"`
	Points   float64            `json:"points"`
	Type     model.QuestionType `json:"type"`
}

// QuizService handles the quiz lifecycle and Redis payload caching.
type QuizService struct {
	quizRepo     *repository.QuizRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "quiz_service").Logger(),
	}
}

// GetByID retrieves a quiz by its UUID.
func (s *QuizService) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return s.quizRepo.GetByID(ctx, id)
}

// List retrieves quizzes with pagination, narrowed to one lecturer and/or
// status when given.
func (s *QuizService) List(ctx context.Context, lecturerID *int, status *model.QuizStatus, page, perPage int) ([]model.Quiz, *response.Pagination, error) {
	page, perPage = clampPaging(page, perPage)
	quizzes, total, err := s.quizRepo.ListPaginated(ctx, lecturerID, status, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}
	return quizzes, buildPagination(page, perPage, total), nil
}

// ListForStudent retrieves the published quizzes a student can reach
// through their enrollments.
func (s *QuizService) ListForStudent(ctx context.Context, studentID int) ([]model.Quiz, error) {
	quizzes, err := s.quizRepo.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}
	return quizzes, nil
}

// VisibleToStudent reports whether the quiz reaches the student through an
// active enrollment.
func (s *QuizService) VisibleToStudent(ctx context.Context, quizID uuid.UUID, studentID int) (bool, error) {
	return s.quizRepo.VisibleToStudent(ctx, quizID, studentID)
}

// Create inserts a new quiz as a draft.
func (s *QuizService) Create(ctx context.Context, lecturerID int, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:              req.Title,
		Instructions:       req.Instructions,
		SubjectID:          req.SubjectID,
		SectionID:          req.SectionID,
		LecturerID:         lecturerID,
		TimeLimitMinutes:   req.TimeLimitMinutes,
		AttemptsAllowed:    req.AttemptsAllowed,
		ShuffleQuestions:   req.ShuffleQuestions,
		ShuffleAnswers:     req.ShuffleAnswers,
		ShowResults:        true,
		ShowCorrectAnswers: req.ShowCorrectAnswers,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		PassingScore:       req.PassingScore,
	}
	if req.ShowResults != nil {
		quiz.ShowResults = *req.ShowResults
	}
	if quiz.AttemptsAllowed == 0 {
		quiz.AttemptsAllowed = 1
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}
	s.log.Info().Str("quiz_id", quiz.ID.String()).Str("title", quiz.Title).Msg("Quiz created")
	return quiz, nil
}

// Update applies configuration changes to a draft quiz after an ownership
// check. Published and closed quizzes are immutable.
func (s *QuizService) Update(ctx context.Context, id uuid.UUID, lecturerID int, req *model.UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.getOwned(ctx, id, lecturerID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != model.QuizStatusDraft {
		return nil, ErrQuizNotDraft
	}

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Instructions != "" {
		quiz.Instructions = req.Instructions
	}
	if req.SectionID != nil {
		quiz.SectionID = req.SectionID
	}
	if req.TimeLimitMinutes != nil {
		quiz.TimeLimitMinutes = req.TimeLimitMinutes
	}
	if req.AttemptsAllowed != nil {
		quiz.AttemptsAllowed = *req.AttemptsAllowed
	}
	if req.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *req.ShuffleQuestions
	}
	if req.ShuffleAnswers != nil {
		quiz.ShuffleAnswers = *req.ShuffleAnswers
	}
	if req.ShowResults != nil {
		quiz.ShowResults = *req.ShowResults
	}
	if req.ShowCorrectAnswers != nil {
		quiz.ShowCorrectAnswers = *req.ShowCorrectAnswers
	}
	if req.StartTime != nil {
		quiz.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		quiz.EndTime = req.EndTime
	}
	if req.PassingScore != nil {
		quiz.PassingScore = req.PassingScore
	}
	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Delete removes a quiz. Only drafts without attempts can be deleted.
func (s *QuizService) Delete(ctx context.Context, id uuid.UUID, lecturerID int) error {
	quiz, err := s.getOwned(ctx, id, lecturerID)
	if err != nil {
		return err
	}
	if quiz.Status != model.QuizStatusDraft {
		return ErrQuizNotDraft
	}
	has, err := s.quizRepo.HasSubmissions(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return ErrQuizHasAttempts
	}
	return s.quizRepo.Delete(ctx, id)
}

// Publish moves a draft quiz to published and warms the Redis payload and
// answer key so attempt starts never fan out to PostgreSQL.
func (s *QuizService) Publish(ctx context.Context, id uuid.UUID, lecturerID int) (*model.Quiz, error) {
	quiz, err := s.getOwned(ctx, id, lecturerID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != model.QuizStatusDraft {
		return nil, ErrQuizNotDraft
	}

	if err := s.WarmQuizCache(ctx, quiz); err != nil {
		return nil, err
	}
	if err := s.quizRepo.UpdateStatus(ctx, id, model.QuizStatusPublished); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	quiz.Status = model.QuizStatusPublished

	s.log.Info().Str("quiz_id", id.String()).Msg("Quiz published")
	return quiz, nil
}

// Close moves a published quiz to closed, force-submitting any in-progress
// attempts, and drops the cached payload.
func (s *QuizService) Close(ctx context.Context, id uuid.UUID, lecturerID int) (*model.Quiz, error) {
	quiz, err := s.getOwned(ctx, id, lecturerID)
	if err != nil {
		return nil, err
	}
	if quiz.Status == model.QuizStatusClosed {
		return nil, ErrQuizClosed
	}
	if quiz.Status != model.QuizStatusPublished {
		return nil, ErrQuizNotOpen
	}

	forced, err := s.quizRepo.Close(ctx, id)
	if err != nil {
		return nil, err
	}
	quiz.Status = model.QuizStatusClosed

	if err := s.rdb.Del(ctx,
		config.CacheKey.QuizPayloadKey(id.String()),
		config.CacheKey.QuizAnswerKey(id.String()),
	).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Failed to drop quiz cache")
	}

	s.log.Info().Str("quiz_id", id.String()).Int("forced_submissions", forced).Msg("Quiz closed")
	return quiz, nil
}

// GetPayload returns the cached student-facing payload, falling back to a
// rebuild from PostgreSQL on a cache miss.
func (s *QuizService) GetPayload(ctx context.Context, quiz *model.Quiz) (*model.QuizPayload, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.QuizPayloadKey(quiz.ID.String())).Bytes()
	if err == nil {
		payload := &model.QuizPayload{}
		if err := json.Unmarshal(raw, payload); err == nil {
			return payload, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("Payload cache read failed")
	}

	if err := s.WarmQuizCache(ctx, quiz); err != nil {
		return nil, err
	}
	payload, err := s.buildPayload(ctx, quiz)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// GetAnswerKeyEntry returns the cached grading data for one question,
// falling back to PostgreSQL on a cache miss. Manually graded question
// types have a zero AnswerID.
func (s *QuizService) GetAnswerKeyEntry(ctx context.Context, quizID, questionID uuid.UUID) (*answerKeyEntry, error) {
	raw, err := s.rdb.HGet(ctx, config.CacheKey.QuizAnswerKey(quizID.String()), questionID.String()).Bytes()
	if err == nil {
		entry := &answerKeyEntry{}
		if err := json.Unmarshal(raw, entry); err == nil {
			return entry, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("Answer key cache read failed")
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.QuizID != quizID {
		return nil, ErrQuestionNotInQuiz
	}
	entry := &answerKeyEntry{Points: question.Points, Type: question.QuestionType}
	if model.IsAutoGraded(question.QuestionType) {
		for _, a := range question.Answers {
			if a.IsCorrect {
				entry.AnswerID = a.ID
				break
			}
		}
	}
	return entry, nil
}

// WarmQuizCache loads a quiz's payload and answer key from PostgreSQL into
// Redis. Used by Publish, question updates on drafts being republished, and
// startup prewarming.
func (s *QuizService) WarmQuizCache(ctx context.Context, quiz *model.Quiz) error {
	questions, err := s.questionRepo.ListByQuiz(ctx, quiz.ID)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	payload := payloadFromQuestions(quiz, questions)
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	answerKey := make(map[string]interface{}, len(questions))
	for _, q := range questions {
		entry := answerKeyEntry{Points: q.Points, Type: q.QuestionType}
		if model.IsAutoGraded(q.QuestionType) {
			for _, a := range q.Answers {
				if a.IsCorrect {
					entry.AnswerID = a.ID
					break
				}
			}
		}
		entryJSON, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal answer key: %w", err)
		}
		answerKey[q.ID.String()] = entryJSON
	}

	// Cache both atomically via pipeline.
	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.QuizPayloadKey(quiz.ID.String()), payloadJSON, 0)
	pipe.Del(ctx, config.CacheKey.QuizAnswerKey(quiz.ID.String()))
	pipe.HSet(ctx, config.CacheKey.QuizAnswerKey(quiz.ID.String()), answerKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("quiz_id", quiz.ID.String()).
		Int("questions", len(questions)).
		Msg("Quiz cache warmed")
	return nil
}

// PrewarmAllCaches loads every published quiz into Redis on startup.
func (s *QuizService) PrewarmAllCaches(ctx context.Context) error {
	quizzes, err := s.quizRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published quizzes: %w", err)
	}
	if len(quizzes) == 0 {
		s.log.Info().Msg("No published quizzes to prewarm")
		return nil
	}

	warmed := 0
	for i := range quizzes {
		if err := s.WarmQuizCache(ctx, &quizzes[i]); err != nil {
			s.log.Warn().Err(err).Str("quiz_id", quizzes[i].ID.String()).Msg("Failed to warm quiz, skipping")
			continue
		}
		warmed++
	}
	s.log.Info().Int("warmed", warmed).Int("total", len(quizzes)).Msg("Published quizzes prewarmed")
	return nil
}

func (s *QuizService) buildPayload(ctx context.Context, quiz *model.Quiz) (*model.QuizPayload, error) {
	questions, err := s.questionRepo.ListByQuiz(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	return payloadFromQuestions(quiz, questions), nil
}

func payloadFromQuestions(quiz *model.Quiz, questions []model.Question) *model.QuizPayload {
	studentQuestions := make([]model.QuestionForStudent, len(questions))
	for i, q := range questions {
		answers := make([]model.AnswerOptionForStudent, len(q.Answers))
		for j, a := range q.Answers {
			answers[j] = model.AnswerOptionForStudent{
				ID:         a.ID,
				AnswerText: a.AnswerText,
				OrderIndex: a.OrderIndex,
			}
		}
		studentQuestions[i] = model.QuestionForStudent{
			ID:               q.ID,
			QuestionText:     q.QuestionText,
			QuestionType:     q.QuestionType,
			Points:           q.Points,
			OrderIndex:       q.OrderIndex,
			IsRequired:       q.IsRequired,
			TimeLimitSeconds: q.TimeLimitSeconds,
			Answers:          answers,
		}
	}
	return &model.QuizPayload{
		QuizID:           quiz.ID,
		Title:            quiz.Title,
		Instructions:     quiz.Instructions,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		TotalPoints:      quiz.TotalPoints,
		ShuffleQuestions: quiz.ShuffleQuestions,
		ShuffleAnswers:   quiz.ShuffleAnswers,
		Questions:        studentQuestions,
	}
}

func (s *QuizService) getOwned(ctx context.Context, id uuid.UUID, lecturerID int) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lecturerID != 0 && quiz.LecturerID != lecturerID {
		return nil, ErrNotOwner
	}
	return quiz, nil
}
