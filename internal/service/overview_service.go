package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/repository"
)

// OverviewService handles admin overview business logic.
type OverviewService struct {
	repo *repository.OverviewRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewOverviewService creates a new OverviewService.
func NewOverviewService(repo *repository.OverviewRepository, rdb *redis.Client, log zerolog.Logger) *OverviewService {
	return &OverviewService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "overview_service").Logger(),
	}
}

// GetOverview consolidates platform metrics for the admin overview.
func (s *OverviewService) GetOverview(ctx context.Context) (*model.Overview, error) {
	totals, err := s.repo.GetTotals(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.GetRecentSubmissions(ctx, 10)
	if err != nil {
		return nil, err
	}

	// Queue depth is informational. A Redis hiccup should not take the
	// whole overview down.
	pending, err := s.rdb.LLen(ctx, config.WorkerKey.ExportJobsQueue).Result()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read export queue depth")
		pending = 0
	}

	return &model.Overview{
		Totals:            totals,
		RecentSubmissions: recent,
		PendingExports:    pending,
	}, nil
}
