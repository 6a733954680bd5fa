package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskflow/taskflow-api/internal/auth"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/notify"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/schema"
)

// UserService covers what a signed-in user can change about their own account.
type UserService struct {
	userRepo  repository.UserRepository
	prefsRepo repository.PreferenceRepository
	notifier  *notify.Notifier
}

func NewUserService(userRepo repository.UserRepository, prefsRepo repository.PreferenceRepository, notifier *notify.Notifier) *UserService {
	return &UserService{
		userRepo:  userRepo,
		prefsRepo: prefsRepo,
		notifier:  notifier,
	}
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, input schema.ProfileInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Username = strings.TrimSpace(input.Username)
	if input.ProfilePicture != nil && strings.TrimSpace(*input.ProfilePicture) == "" {
		input.ProfilePicture = nil
	}
	if err := schema.Validate(input); err != nil {
		return nil, err
	}

	if err := ensureAvailable(ctx, s.userRepo, userID, input.Email, input.Username); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Update(ctx, userID, repository.UserPatch{
		Name:           &input.Name,
		Email:          &input.Email,
		Username:       &input.Username,
		ProfilePicture: input.ProfilePicture,
	})
	return user, mapUserWriteError(err)
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint64, input schema.ChangePasswordInput) error {
	if err := schema.Validate(input); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, input.CurrentPassword) {
		return ErrIncorrectPassword
	}

	hashed, err := hashPassword("newPassword", input.NewPassword)
	if err != nil {
		return err
	}
	user, err = s.userRepo.Update(ctx, userID, repository.UserPatch{PasswordHash: &hashed})
	if err := mapUserWriteError(err); err != nil {
		return err
	}

	s.notifier.PasswordChanged(ctx, user)
	return nil
}

func (s *UserService) GetPreferences(ctx context.Context, userID uint64) (models.NotificationPreferences, error) {
	prefs, err := s.prefsRepo.Get(ctx, userID)
	if err != nil {
		return prefs, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

func (s *UserService) UpdatePreferences(ctx context.Context, userID uint64, prefs models.NotificationPreferences) (models.NotificationPreferences, error) {
	if err := s.prefsRepo.Save(ctx, userID, prefs); err != nil {
		return prefs, fmt.Errorf("failed to save preferences: %w", err)
	}
	return prefs, nil
}

func mapUserWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrAccountConflict
	default:
		return fmt.Errorf("failed to update user: %w", err)
	}
}
