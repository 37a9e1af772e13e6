package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/model"
)

var (
	// ErrNotJobOwner is returned when a teacher requests an export job
	// they did not create.
	ErrNotJobOwner = errors.New("caller does not own this export job")
)

// ExportJobTTL is how long a job record stays readable after creation.
// Finished spreadsheets on disk outlive the record.
const ExportJobTTL = 24 * time.Hour

// ExportService enqueues spreadsheet export jobs for the export worker
// and serves their status back to the requester.
type ExportService struct {
	testService *TestService
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(testService *TestService, rdb *redis.Client, log zerolog.Logger) *ExportService {
	return &ExportService{
		testService: testService,
		rdb:         rdb,
		log:         log.With().Str("component", "export_service").Logger(),
	}
}

// RequestExport queues a result export for a test the caller owns and
// returns the job record for polling.
func (s *ExportService) RequestExport(ctx context.Context, testID uuid.UUID, callerID int, isAdmin bool) (*model.ExportJob, error) {
	if _, err := s.testService.GetForOwner(ctx, testID, callerID, isAdmin); err != nil {
		return nil, err
	}

	now := time.Now()
	job := &model.ExportJob{
		ID:          uuid.New(),
		TestID:      testID,
		RequestedBy: callerID,
		Status:      model.ExportStatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	raw, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal export job: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.ExportJobKey(job.ID.String()), raw, ExportJobTTL)
	pipe.RPush(ctx, config.WorkerKey.ExportJobsQueue, raw)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("enqueue export job: %w", err)
	}

	s.log.Info().
		Str("job_id", job.ID.String()).
		Str("test_id", testID.String()).
		Int("requested_by", callerID).
		Msg("Export job queued")

	return job, nil
}

// GetJob returns the current state of an export job. Only the
// requester or an admin may read it.
func (s *ExportService) GetJob(ctx context.Context, jobID uuid.UUID, callerID int, isAdmin bool) (*model.ExportJob, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.ExportJobKey(jobID.String())).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("fetch export job: %w", err)
	}

	var job model.ExportJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("unmarshal export job: %w", err)
	}

	if job.RequestedBy != callerID && !isAdmin {
		return nil, ErrNotJobOwner
	}
	return &job, nil
}
