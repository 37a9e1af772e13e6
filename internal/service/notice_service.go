package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/repository"
)

// NoticeService handles class notice business logic.
type NoticeService struct {
	noticeRepo   *repository.NoticeRepository
	classService *ClassService
	log          zerolog.Logger
}

// NewNoticeService creates a new NoticeService.
func NewNoticeService(noticeRepo *repository.NoticeRepository, classService *ClassService, log zerolog.Logger) *NoticeService {
	return &NoticeService{
		noticeRepo:   noticeRepo,
		classService: classService,
		log:          log.With().Str("component", "notice_service").Logger(),
	}
}

// Create posts a notice to a class the caller manages.
func (s *NoticeService) Create(ctx context.Context, claims *Claims, req *model.CreateNoticeRequest) (*model.Notice, error) {
	if _, err := s.classService.AuthorizeManage(ctx, req.ClassID, claims); err != nil {
		return nil, err
	}

	notice := &model.Notice{
		ClassID:     req.ClassID,
		Title:       req.Title,
		Message:     req.Message,
		IsImportant: req.IsImportant,
		CreatedBy:   claims.UserID,
	}
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, fmt.Errorf("create notice: %w", err)
	}
	return notice, nil
}

// ListByClass retrieves a class's notices for any member, newest first.
func (s *NoticeService) ListByClass(ctx context.Context, classID int, claims *Claims) ([]model.Notice, error) {
	if err := s.classService.AuthorizeByID(ctx, classID, claims); err != nil {
		return nil, err
	}
	return s.noticeRepo.ListByClass(ctx, classID)
}

// Delete removes a notice from a class the caller manages.
func (s *NoticeService) Delete(ctx context.Context, id uuid.UUID, claims *Claims) error {
	notice, err := s.noticeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.classService.AuthorizeManage(ctx, notice.ClassID, claims); err != nil {
		return err
	}
	return s.noticeRepo.Delete(ctx, id)
}
