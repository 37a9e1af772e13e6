package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/repository"
)

// HomeworkService handles homework business logic.
type HomeworkService struct {
	homeworkRepo *repository.HomeworkRepository
	classService *ClassService
	mediaService *MediaService
	log          zerolog.Logger
}

// NewHomeworkService creates a new HomeworkService.
func NewHomeworkService(
	homeworkRepo *repository.HomeworkRepository,
	classService *ClassService,
	mediaService *MediaService,
	log zerolog.Logger,
) *HomeworkService {
	return &HomeworkService{
		homeworkRepo: homeworkRepo,
		classService: classService,
		mediaService: mediaService,
		log:          log.With().Str("component", "homework_service").Logger(),
	}
}

// Create posts homework to a class the caller manages.
func (s *HomeworkService) Create(ctx context.Context, claims *Claims, req *model.CreateHomeworkRequest) (*model.Homework, error) {
	if _, err := s.classService.AuthorizeManage(ctx, req.ClassID, claims); err != nil {
		return nil, err
	}

	homework := &model.Homework{
		ClassID:        req.ClassID,
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		AttachmentLink: req.AttachmentLink,
	}
	if err := s.homeworkRepo.Create(ctx, homework); err != nil {
		return nil, fmt.Errorf("create homework: %w", err)
	}
	return homework, nil
}

// ListByClass retrieves a class's homework for any member of the class.
func (s *HomeworkService) ListByClass(ctx context.Context, classID int, claims *Claims) ([]model.Homework, error) {
	if err := s.classService.AuthorizeByID(ctx, classID, claims); err != nil {
		return nil, err
	}
	return s.homeworkRepo.ListByClass(ctx, classID)
}

// Delete removes homework from a class the caller manages, cleaning up
// any locally stored attachment.
func (s *HomeworkService) Delete(ctx context.Context, id uuid.UUID, claims *Claims) error {
	homework, err := s.homeworkRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.classService.AuthorizeManage(ctx, homework.ClassID, claims); err != nil {
		return err
	}

	if err := s.homeworkRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete homework: %w", err)
	}
	if homework.AttachmentLink != nil {
		s.mediaService.RemoveByURL(*homework.AttachmentLink)
	}
	return nil
}
