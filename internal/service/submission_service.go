package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/repository"
)

// ErrAlreadySubmitted is returned when a student re-submits a test.
var ErrAlreadySubmitted = errors.New("test already submitted")

// SubmissionService handles grading, submission storage and result
// retrieval. Grading is synchronous: the answer key comes from the
// Redis fast lane with a PostgreSQL fallback.
type SubmissionService struct {
	submissionRepo *repository.SubmissionRepository
	enrollRepo     *repository.EnrollmentRepository
	userRepo       *repository.UserRepository
	testService    *TestService
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	enrollRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
	testService *TestService,
	rdb *redis.Client,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		enrollRepo:     enrollRepo,
		userRepo:       userRepo,
		testService:    testService,
		rdb:            rdb,
		log:            log.With().Str("component", "submission_service").Logger(),
	}
}

// Grade scores a set of answers against an answer key. Duplicate
// question indexes collapse to the last occurrence, out-of-range
// indexes are ignored, and letter comparison is case-insensitive.
// Unanswered questions simply contribute nothing.
func Grade(answers []model.Answer, answerKey map[int]string) (score, total int) {
	total = len(answerKey)

	final := make(map[int]string, len(answers))
	for _, a := range answers {
		if a.QuestionIndex < 0 || a.QuestionIndex >= total {
			continue
		}
		final[a.QuestionIndex] = a.SelectedAnswer
	}

	for idx, selected := range final {
		if strings.EqualFold(selected, answerKey[idx]) {
			score++
		}
	}
	return score, total
}

// Submit grades and stores a student's submission. Exactly one
// submission per (test, student) is accepted; the database constraint
// is authoritative. The response deliberately omits the score, which
// is released through the result endpoints.
func (s *SubmissionService) Submit(ctx context.Context, studentID int, req *model.SubmitTestRequest) (*model.SubmitReceipt, error) {
	payload, err := s.testService.GetPayload(ctx, req.TestID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollRepo.Exists(ctx, studentID, payload.ClassID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	answerKey, err := s.testService.GetAnswerKey(ctx, req.TestID)
	if err != nil {
		return nil, err
	}

	score, total := Grade(req.Answers, answerKey)

	submission := &model.Submission{
		TestID:         req.TestID,
		StudentID:      studentID,
		Answers:        req.Answers,
		Score:          score,
		TotalQuestions: total,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("store submission: %w", err)
	}

	s.afterSubmit(ctx, submission)

	s.log.Info().
		Str("test_id", req.TestID.String()).
		Int("student_id", studentID).
		Int("score", score).
		Int("total", total).
		Msg("Submission graded")

	return &model.SubmitReceipt{
		SubmissionID: submission.ID,
		SubmittedAt:  submission.SubmittedAt,
	}, nil
}

// afterSubmit publishes the monitor event and clears the student's
// draft hash. Both are best-effort.
func (s *SubmissionService) afterSubmit(ctx context.Context, submission *model.Submission) {
	event := model.MonitorEvent{
		Type:           "submission",
		SubmissionID:   submission.ID,
		TestID:         submission.TestID,
		StudentID:      submission.StudentID,
		Score:          submission.Score,
		TotalQuestions: submission.TotalQuestions,
		SubmittedAt:    submission.SubmittedAt,
	}
	if student, err := s.userRepo.GetByID(ctx, submission.StudentID); err == nil {
		event.StudentName = student.Name
	}
	if raw, err := json.Marshal(event); err == nil {
		channel := config.CacheKey.TestMonitorChannel(submission.TestID.String())
		if err := s.rdb.Publish(ctx, channel, raw).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to publish monitor event")
		}
	}

	draftsKey := config.CacheKey.StudentDraftsKey(submission.TestID.String(), submission.StudentID)
	if err := s.rdb.Del(ctx, draftsKey).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to clear draft answers")
	}
}

// GetResult retrieves a student's own graded result with the redacted
// test attached for review.
func (s *SubmissionService) GetResult(ctx context.Context, studentID int, testID uuid.UUID) (*model.TestResult, error) {
	submission, err := s.submissionRepo.GetByTestAndStudent(ctx, testID, studentID)
	if err != nil {
		return nil, err
	}

	payload, err := s.testService.GetPayload(ctx, testID)
	if err != nil {
		return nil, err
	}

	return &model.TestResult{
		SubmissionID:   submission.ID,
		TestID:         submission.TestID,
		Score:          submission.Score,
		TotalQuestions: submission.TotalQuestions,
		Answers:        submission.Answers,
		SubmittedAt:    submission.SubmittedAt,
		Test:           payload,
	}, nil
}

// ListMine retrieves a student's result history, newest first.
func (s *SubmissionService) ListMine(ctx context.Context, studentID int) ([]model.ResultHistoryRow, error) {
	return s.submissionRepo.ListByStudent(ctx, studentID)
}

// ListByTest retrieves all submissions for a test, for its author or an
// admin.
func (s *SubmissionService) ListByTest(ctx context.Context, testID uuid.UUID, callerID int, isAdmin bool) ([]model.SubmissionRow, error) {
	if _, err := s.testService.GetForOwner(ctx, testID, callerID, isAdmin); err != nil {
		return nil, err
	}
	return s.submissionRepo.ListByTest(ctx, testID)
}
