package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/repository"
)

// ResourceService handles class resource business logic.
type ResourceService struct {
	resourceRepo *repository.ResourceRepository
	classService *ClassService
	mediaService *MediaService
	log          zerolog.Logger
}

// NewResourceService creates a new ResourceService.
func NewResourceService(
	resourceRepo *repository.ResourceRepository,
	classService *ClassService,
	mediaService *MediaService,
	log zerolog.Logger,
) *ResourceService {
	return &ResourceService{
		resourceRepo: resourceRepo,
		classService: classService,
		mediaService: mediaService,
		log:          log.With().Str("component", "resource_service").Logger(),
	}
}

// Create attaches a resource to a class the caller manages.
func (s *ResourceService) Create(ctx context.Context, claims *Claims, req *model.CreateResourceRequest) (*model.Resource, error) {
	if _, err := s.classService.AuthorizeManage(ctx, req.ClassID, claims); err != nil {
		return nil, err
	}

	resource := &model.Resource{
		ClassID: req.ClassID,
		Name:    req.Name,
		Type:    req.Type,
		Link:    req.Link,
	}
	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return resource, nil
}

// ListByClass retrieves a class's resources for any member.
func (s *ResourceService) ListByClass(ctx context.Context, classID int, claims *Claims) ([]model.Resource, error) {
	if err := s.classService.AuthorizeByID(ctx, classID, claims); err != nil {
		return nil, err
	}
	return s.resourceRepo.ListByClass(ctx, classID)
}

// Delete removes a resource from a class the caller manages, cleaning
// up the local file for uploaded resources.
func (s *ResourceService) Delete(ctx context.Context, id uuid.UUID, claims *Claims) error {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.classService.AuthorizeManage(ctx, resource.ClassID, claims); err != nil {
		return err
	}

	if err := s.resourceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if resource.Type == model.ResourceTypeFile {
		s.mediaService.RemoveByURL(resource.Link)
	}
	return nil
}
