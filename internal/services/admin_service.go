package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskflow/taskflow-api/internal/logger"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/schema"
)

// AdminService implements user management for administrators. Callers are
// expected to have checked the admin role already.
type AdminService struct {
	userRepo  repository.UserRepository
	prefsRepo repository.PreferenceRepository
}

func NewAdminService(userRepo repository.UserRepository, prefsRepo repository.PreferenceRepository) *AdminService {
	return &AdminService{
		userRepo:  userRepo,
		prefsRepo: prefsRepo,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser changes the provided fields only.
func (s *AdminService) UpdateUser(ctx context.Context, userID uint64, input schema.AdminUserUpdate) (*models.User, error) {
	if input.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	input.Name = trim(input.Name)
	input.Email = trim(input.Email)
	input.Username = trim(input.Username)
	if err := schema.Validate(input); err != nil {
		return nil, err
	}

	var email, username string
	if input.Email != nil {
		email = *input.Email
	}
	if input.Username != nil {
		username = *input.Username
	}
	if err := ensureAvailable(ctx, s.userRepo, userID, email, username); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Update(ctx, userID, repository.UserPatch{
		Name:     input.Name,
		Email:    input.Email,
		Username: input.Username,
		Role:     input.Role,
	})
	return user, mapUserWriteError(err)
}

// DeleteUser removes a user and everything they own. An administrator cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, userID uint64) error {
	if actorID == userID {
		return ErrCannotDeleteYourself
	}

	deleted, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}

	if err := s.prefsRepo.Delete(ctx, userID); err != nil {
		logger.WarnLog(ctx, "failed to delete preferences of user %d: %v", userID, err)
	}
	return nil
}
