package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/repository"
)

// MonitorService builds live monitoring snapshots for a running test.
type MonitorService struct {
	submissionRepo *repository.SubmissionRepository
	enrollRepo     *repository.EnrollmentRepository
	testService    *TestService
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(
	submissionRepo *repository.SubmissionRepository,
	enrollRepo *repository.EnrollmentRepository,
	testService *TestService,
) *MonitorService {
	return &MonitorService{
		submissionRepo: submissionRepo,
		enrollRepo:     enrollRepo,
		testService:    testService,
	}
}

// GetSnapshot returns the current submission state of a test for its
// author or an admin. Submissions and roster size are fetched in
// parallel to minimize latency.
func (s *MonitorService) GetSnapshot(ctx context.Context, testID uuid.UUID, callerID int, isAdmin bool) (*model.MonitorSnapshot, error) {
	test, err := s.testService.GetForOwner(ctx, testID, callerID, isAdmin)
	if err != nil {
		return nil, err
	}

	var (
		submissions   []model.SubmissionRow
		enrolledCount int
		subErr        error
		countErr      error
		wg            sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		submissions, subErr = s.submissionRepo.ListByTest(ctx, testID)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		enrolledCount, countErr = s.enrollRepo.CountByClass(ctx, test.ClassID)
	}()

	wg.Wait()

	// Submissions are critical; the roster size is best-effort.
	if subErr != nil {
		return nil, subErr
	}
	if countErr != nil {
		enrolledCount = 0
	}

	return &model.MonitorSnapshot{
		TestID:         test.ID,
		Title:          test.Title,
		EnrolledCount:  enrolledCount,
		SubmittedCount: len(submissions),
		Submissions:    submissions,
	}, nil
}
