package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/repository"
)

// Domain errors.
var (
	ErrEmailTaken = errors.New("email already in use")
	ErrSelfDelete = errors.New("cannot delete your own account")
)

// UserService handles admin user management.
type UserService struct {
	userRepo    *repository.UserRepository
	authService *AuthService
	log         zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, authService *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo:    userRepo,
		authService: authService,
		log:         log.With().Str("component", "user_service").Logger(),
	}
}

// List retrieves a page of users filtered by role and/or a name/email
// search term. Omitted paging fields are normalized in place so the
// caller can echo them back.
func (s *UserService) List(ctx context.Context, query *model.UserQuery) ([]model.User, int, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = 10
	}
	offset := (query.Page - 1) * query.PerPage

	return s.userRepo.List(ctx, query.Role, query.Search, query.PerPage, offset)
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Update modifies a user's name, email and role.
func (s *UserService) Update(ctx context.Context, id int, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Int("user_id", id).Str("role", string(user.Role)).Msg("User updated")
	return user, nil
}

// Delete removes a user and revokes their outstanding tokens. Admins
// cannot delete themselves. Owned classes, enrollments and submissions
// cascade.
func (s *UserService) Delete(ctx context.Context, id, callerID int) error {
	if id == callerID {
		return ErrSelfDelete
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.authService.RevokeUser(ctx, id); err != nil {
		s.log.Warn().Err(err).Int("user_id", id).Msg("Failed to revoke tokens")
	}

	s.log.Info().Int("user_id", id).Msg("User deleted")
	return nil
}
