package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskflow/taskflow-api/internal/auth"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
)

const (
	SampleUserEmail    = "user@example.com"
	SampleUserPassword = "password"
)

type sampleTask struct {
	title       string
	description string
	priority    models.TaskPriority
	dueDate     string
	tag         models.TaskTag
	completed   bool
}

var sampleTasks = []sampleTask{
	{"Complete project proposal", "Finish the draft and send it for review", models.PriorityHigh, "2023-06-25", models.TagWork, false},
	{"Buy groceries", "Milk, eggs, bread and fruit", models.PriorityMedium, "2023-06-22", models.TagPersonal, true},
	{"Schedule team meeting", "Agree on the sprint goals", models.PriorityMedium, "2023-06-23", models.TagWork, false},
	{"Renew gym membership", "", models.PriorityLow, "2023-06-30", models.TagPersonal, false},
	{"Fix website bug", "Login button does nothing on mobile", models.PriorityHigh, "2023-06-21", models.TagUrgent, false},
}

// SeedSampleData creates the demo account and its tasks. It does nothing
// when the account already exists and reports whether anything was created.
func SeedSampleData(ctx context.Context, users repository.UserRepository, tasks repository.TaskRepository) (bool, error) {
	_, err := users.FindByEmail(ctx, SampleUserEmail)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("failed to look up sample user: %w", err)
	}

	hashed, err := auth.HashPassword(SampleUserPassword)
	if err != nil {
		return false, err
	}
	user := &models.User{
		Username:     "user",
		Email:        SampleUserEmail,
		Name:         "John Doe",
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	if err := users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("failed to create sample user: %w", err)
	}

	for _, st := range sampleTasks {
		task := &models.Task{
			Title:       st.title,
			Description: st.description,
			Priority:    st.priority,
			DueDate:     st.dueDate,
			Tag:         st.tag,
			UserID:      user.ID,
		}
		if err := tasks.Create(ctx, task); err != nil {
			return false, fmt.Errorf("failed to create sample task: %w", err)
		}
		if st.completed {
			fields := fieldsOf(*task)
			fields.Completed = true
			if _, err := tasks.Update(ctx, task.ID, fields); err != nil {
				return false, fmt.Errorf("failed to complete sample task: %w", err)
			}
		}
	}
	return true, nil
}

// CreateAdmin creates an administrator account, or promotes the user with that email.
func CreateAdmin(ctx context.Context, users repository.UserRepository, username, email, name, password string) (*models.User, error) {
	role := models.RoleAdmin
	if existing, err := users.FindByEmail(ctx, email); err == nil {
		return users.Update(ctx, existing.ID, repository.UserPatch{Role: &role})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
