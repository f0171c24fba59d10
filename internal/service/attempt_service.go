package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
)

// Domain errors for the attempt lifecycle.
var (
	ErrNotVisible        = errors.New("quiz is not available to this student")
	ErrNotAttemptOwner   = errors.New("not the owner of this attempt")
	ErrAttemptFinished   = errors.New("attempt is no longer in progress")
	ErrAttemptInProgress = errors.New("attempt is still in progress")
	ErrResultsHidden     = errors.New("results are hidden for this quiz")
)

// AttemptService handles the student side of quizzes: starting attempts,
// answering, submitting, and reading results.
type AttemptService struct {
	quizzes        *QuizService
	submissionRepo *repository.SubmissionRepository
	log            zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	quizzes *QuizService,
	submissionRepo *repository.SubmissionRepository,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		quizzes:        quizzes,
		submissionRepo: submissionRepo,
		log:            log.With().Str("component", "attempt_service").Logger(),
	}
}

// StartedAttempt bundles the new attempt with the quiz payload the student
// will answer against.
type StartedAttempt struct {
	Submission *model.Submission  `json:"submission"`
	Payload    *model.QuizPayload `json:"quiz"`
	Deadline   *time.Time         `json:"deadline,omitempty"`
}

// Start creates an attempt for the student. The quiz must be published and
// inside its availability window, and the student must reach it through an
// active enrollment. Question and option order is shuffled per attempt when
// the quiz asks for it; the stored data never changes.
func (s *AttemptService) Start(ctx context.Context, quizID uuid.UUID, studentID int, ip, userAgent string) (*StartedAttempt, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if !model.QuizIsActive(quiz, now) {
		return nil, ErrQuizNotOpen
	}
	visible, err := s.quizzes.VisibleToStudent(ctx, quizID, studentID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrNotVisible
	}

	sub := &model.Submission{
		QuizID:    quizID,
		StudentID: studentID,
		MaxScore:  quiz.TotalPoints,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.submissionRepo.CreateAttempt(ctx, sub, quiz.AttemptsAllowed); err != nil {
		return nil, err
	}

	payload, err := s.quizzes.GetPayload(ctx, quiz)
	if err != nil {
		return nil, err
	}
	payload = shufflePayload(payload)

	s.log.Info().
		Str("quiz_id", quizID.String()).
		Int("student_id", studentID).
		Int("attempt", sub.AttemptNumber).
		Msg("Attempt started")

	return &StartedAttempt{
		Submission: sub,
		Payload:    payload,
		Deadline:   attemptDeadline(quiz, sub.StartedAt),
	}, nil
}

// StartView returns the shuffled question view for a quiz without creating
// an attempt. Students use it to preview what an attempt will look like.
func (s *AttemptService) StartView(ctx context.Context, quizID uuid.UUID, studentID int) (*model.QuizPayload, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !model.QuizIsActive(quiz, time.Now()) {
		return nil, ErrQuizNotOpen
	}
	visible, err := s.quizzes.VisibleToStudent(ctx, quizID, studentID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrNotVisible
	}
	payload, err := s.quizzes.GetPayload(ctx, quiz)
	if err != nil {
		return nil, err
	}
	return shufflePayload(payload), nil
}

// Answer records the student's answer to one question, auto-grading it when
// the question type allows. Answering again replaces the previous answer.
func (s *AttemptService) Answer(ctx context.Context, submissionID uuid.UUID, studentID int, req *model.SubmitAnswerRequest) (*model.Response, error) {
	sub, quiz, err := s.activeAttempt(ctx, submissionID, studentID)
	if err != nil {
		return nil, err
	}

	entry, err := s.quizzes.GetAnswerKeyEntry(ctx, quiz.ID, req.QuestionID)
	if err != nil {
		return nil, err
	}

	resp := &model.Response{
		SubmissionID:     sub.ID,
		QuestionID:       req.QuestionID,
		AnswerID:         req.AnswerID,
		AnswerText:       req.AnswerText,
		TimeSpentSeconds: req.TimeSpentSeconds,
	}
	if model.IsAutoGraded(entry.Type) {
		correct := req.AnswerID != nil && *req.AnswerID == entry.AnswerID
		resp.IsCorrect = &correct
		points := 0.0
		if correct {
			points = entry.Points
		}
		resp.PointsEarned = &points
	}

	if err := s.submissionRepo.UpsertResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Flag marks one question of an in-progress attempt for later review.
func (s *AttemptService) Flag(ctx context.Context, submissionID uuid.UUID, studentID int, req *model.FlagQuestionRequest) error {
	sub, _, err := s.activeAttempt(ctx, submissionID, studentID)
	if err != nil {
		return err
	}
	return s.submissionRepo.FlagQuestion(ctx, sub.ID, req.QuestionID, req.Reason)
}

// Submit finalizes an in-progress attempt: the auto-graded score is summed,
// the percentage computed, and the attempt moves to submitted.
func (s *AttemptService) Submit(ctx context.Context, submissionID uuid.UUID, studentID int) (*model.Submission, error) {
	sub, _, err := s.activeAttempt(ctx, submissionID, studentID)
	if err != nil {
		return nil, err
	}

	if err := s.finalizeScored(ctx, sub, model.SubmissionSubmitted); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("submission_id", sub.ID.String()).
		Float64("score", *sub.Score).
		Float64("percentage", *sub.Percentage).
		Msg("Attempt submitted")
	return sub, nil
}

// finalizeScored closes out an attempt with the auto-graded score. Essay and
// short-answer points stay out of the sum until manual grading.
func (s *AttemptService) finalizeScored(ctx context.Context, sub *model.Submission, status model.SubmissionStatus) error {
	responses, err := s.submissionRepo.ListResponses(ctx, sub.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	score := model.AutoGradedScore(responses)
	percentage := model.Percentage(score, sub.MaxScore)

	sub.Status = status
	sub.SubmittedAt = &now
	sub.TimeSpentSeconds = int(now.Sub(sub.StartedAt).Seconds())
	sub.Score = &score
	sub.Percentage = &percentage

	return s.submissionRepo.Finalize(ctx, sub)
}

// Progress reports how far an in-progress attempt has come.
func (s *AttemptService) Progress(ctx context.Context, submissionID uuid.UUID, studentID int) (*model.AttemptProgress, error) {
	sub, quiz, err := s.ownedAttempt(ctx, submissionID, studentID)
	if err != nil {
		return nil, err
	}

	payload, err := s.quizzes.GetPayload(ctx, quiz)
	if err != nil {
		return nil, err
	}
	responses, err := s.submissionRepo.ListResponses(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	answered := 0
	for i := range responses {
		if responses[i].AttemptCount > 0 {
			answered++
		}
	}
	progress := &model.AttemptProgress{
		SubmissionID:      sub.ID,
		TotalQuestions:    len(payload.Questions),
		AnsweredQuestions: answered,
		RunningScore:      model.AutoGradedScore(responses),
		MaxScore:          sub.MaxScore,
	}
	if progress.TotalQuestions > 0 {
		progress.PercentageAnswered = model.Percentage(float64(answered), float64(progress.TotalQuestions))
	}
	return progress, nil
}

// Result returns the outcome of a finished attempt. Correctness details are
// stripped when the quiz hides them from students.
func (s *AttemptService) Result(ctx context.Context, submissionID uuid.UUID, studentID int) (*model.AttemptResult, error) {
	sub, quiz, err := s.ownedAttempt(ctx, submissionID, studentID)
	if err != nil {
		return nil, err
	}
	if sub.Status == model.SubmissionInProgress {
		return nil, ErrAttemptInProgress
	}
	if !quiz.ShowResults {
		return nil, ErrResultsHidden
	}

	responses, err := s.submissionRepo.ListResponses(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	if !quiz.ShowCorrectAnswers {
		for i := range responses {
			responses[i].IsCorrect = nil
		}
	}

	result := &model.AttemptResult{Submission: *sub, Responses: responses}
	if sub.Percentage != nil {
		result.Passed = model.PassedAgainst(*sub.Percentage, quiz.PassingScore)
	}
	return result, nil
}

// ListMine retrieves the student's own attempts, optionally for one quiz.
func (s *AttemptService) ListMine(ctx context.Context, studentID int, quizID *uuid.UUID) ([]model.Submission, error) {
	subs, err := s.submissionRepo.ListByStudent(ctx, studentID, quizID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	return subs, nil
}

// ─── Lecturer results ──────────────────────────────────────────────────

// ListResults retrieves the finished attempts of a quiz the lecturer owns.
func (s *AttemptService) ListResults(ctx context.Context, quizID uuid.UUID, lecturerID, page, perPage int) ([]repository.QuizResultRow, *response.Pagination, error) {
	if _, err := s.quizzes.getOwned(ctx, quizID, lecturerID); err != nil {
		return nil, nil, err
	}
	page, perPage = clampPaging(page, perPage)
	results, total, err := s.submissionRepo.ListResultsPaginated(ctx, quizID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if results == nil {
		results = []repository.QuizResultRow{}
	}
	return results, buildPagination(page, perPage, total), nil
}

// Aggregate computes summary statistics over a quiz the lecturer owns.
func (s *AttemptService) Aggregate(ctx context.Context, quizID uuid.UUID, lecturerID int) (*repository.QuizAggregate, error) {
	if _, err := s.quizzes.getOwned(ctx, quizID, lecturerID); err != nil {
		return nil, err
	}
	return s.submissionRepo.GetAggregate(ctx, quizID)
}

// QuestionStats computes per-question difficulty over a quiz the lecturer
// owns.
func (s *AttemptService) QuestionStats(ctx context.Context, quizID uuid.UUID, lecturerID int) ([]repository.QuestionStat, error) {
	if _, err := s.quizzes.getOwned(ctx, quizID, lecturerID); err != nil {
		return nil, err
	}
	stats, err := s.submissionRepo.GetQuestionStats(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []repository.QuestionStat{}
	}
	return stats, nil
}

// ─── helpers ───────────────────────────────────────────────────────────

// activeAttempt loads an attempt that must still accept answers. An attempt
// past its deadline is expired on the spot and rejected.
func (s *AttemptService) activeAttempt(ctx context.Context, submissionID uuid.UUID, studentID int) (*model.Submission, *model.Quiz, error) {
	sub, quiz, err := s.ownedAttempt(ctx, submissionID, studentID)
	if err != nil {
		return nil, nil, err
	}
	if sub.Status != model.SubmissionInProgress {
		return nil, nil, ErrAttemptFinished
	}

	if deadline := attemptDeadline(quiz, sub.StartedAt); deadline != nil && deadline.Before(time.Now()) {
		if err := s.finalizeScored(ctx, sub, model.SubmissionExpired); err != nil {
			s.log.Warn().Err(err).Str("submission_id", sub.ID.String()).Msg("Failed to expire overdue attempt")
		}
		return nil, nil, ErrAttemptFinished
	}
	return sub, quiz, nil
}

func (s *AttemptService) ownedAttempt(ctx context.Context, submissionID uuid.UUID, studentID int) (*model.Submission, *model.Quiz, error) {
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, nil, err
	}
	if studentID != 0 && sub.StudentID != studentID {
		return nil, nil, ErrNotAttemptOwner
	}
	quiz, err := s.quizzes.GetByID(ctx, sub.QuizID)
	if err != nil {
		return nil, nil, err
	}
	return sub, quiz, nil
}

// attemptDeadline returns the earlier of started+time_limit and the quiz
// end time, or nil when neither is configured.
func attemptDeadline(quiz *model.Quiz, startedAt time.Time) *time.Time {
	var deadline *time.Time
	if quiz.TimeLimitMinutes != nil {
		d := startedAt.Add(time.Duration(*quiz.TimeLimitMinutes) * time.Minute)
		deadline = &d
	}
	if quiz.EndTime != nil && (deadline == nil || quiz.EndTime.Before(*deadline)) {
		deadline = quiz.EndTime
	}
	return deadline
}

// shufflePayload returns a copy with question and option order randomized
// according to the quiz's shuffle settings. Order is per attempt only.
func shufflePayload(p *model.QuizPayload) *model.QuizPayload {
	if !p.ShuffleQuestions && !p.ShuffleAnswers {
		return p
	}

	shuffled := *p
	shuffled.Questions = make([]model.QuestionForStudent, len(p.Questions))
	copy(shuffled.Questions, p.Questions)

	if p.ShuffleQuestions {
		rand.Shuffle(len(shuffled.Questions), func(i, j int) {
			shuffled.Questions[i], shuffled.Questions[j] = shuffled.Questions[j], shuffled.Questions[i]
		})
	}
	if p.ShuffleAnswers {
		for i := range shuffled.Questions {
			answers := make([]model.AnswerOptionForStudent, len(shuffled.Questions[i].Answers))
			copy(answers, shuffled.Questions[i].Answers)
			rand.Shuffle(len(answers), func(a, b int) {
				answers[a], answers[b] = answers[b], answers[a]
			})
			shuffled.Questions[i].Answers = answers
		}
	}
	return &shuffled
}
