package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/taskflow/taskflow-api/internal/dto"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/schema"
)

// Users lists every account. Administrators only; the list is cached.
func (c *Client) Users(ctx context.Context) ([]dto.UserDTO, error) {
	c.mu.Lock()
	if c.users != nil {
		cached := append([]dto.UserDTO(nil), c.users...)
		c.mu.Unlock()
		return cached, nil
	}
	gen := c.usersGen
	c.mu.Unlock()

	var users []dto.UserDTO
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", true, nil, &users); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.usersGen == gen {
		c.users = users
	}
	c.mu.Unlock()
	return append([]dto.UserDTO(nil), users...), nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint64, update schema.AdminUserUpdate) (dto.UserDTO, error) {
	if update.IsEmpty() {
		return dto.UserDTO{}, schema.Invalid("user", "No values provided")
	}
	if err := schema.Validate(update); err != nil {
		return dto.UserDTO{}, err
	}

	var user dto.UserDTO
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/users/%d", id), true, update, &user)
	c.invalidateUsers()
	return user, err
}

// DeleteUser removes the account and its tasks.
func (c *Client) DeleteUser(ctx context.Context, id uint64) error {
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", id), true, nil, nil)
	c.invalidateUsers()
	c.invalidateTasks()
	return err
}

func (c *Client) UpdateProfile(ctx context.Context, input schema.ProfileInput) (dto.UserDTO, error) {
	if err := schema.Validate(input); err != nil {
		return dto.UserDTO{}, err
	}

	var user dto.UserDTO
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", true, input, &user); err != nil {
		return dto.UserDTO{}, err
	}

	c.mu.Lock()
	c.user = &user
	c.users = nil
	c.usersGen++
	c.mu.Unlock()
	return user, nil
}

func (c *Client) ChangePassword(ctx context.Context, input schema.ChangePasswordInput) error {
	if err := schema.Validate(input); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/users/change-password", true, input, nil)
}

func (c *Client) Notifications(ctx context.Context) (models.NotificationPreferences, error) {
	var prefs models.NotificationPreferences
	err := c.do(ctx, http.MethodGet, "/api/users/notifications", true, nil, &prefs)
	return prefs, err
}

func (c *Client) UpdateNotifications(ctx context.Context, prefs models.NotificationPreferences) (models.NotificationPreferences, error) {
	var saved models.NotificationPreferences
	err := c.do(ctx, http.MethodPut, "/api/users/notifications", true, prefs, &saved)
	return saved, err
}
