package repository

import (
	"context"
	"errors"

	"github.com/taskflow/taskflow-api/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a unique constraint (username, email, google id) is violated.
	ErrDuplicate = errors.New("repository: duplicate record")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create assigns the user a fresh ID. Role defaults to user.
	Create(ctx context.Context, user *models.User) error

	FindByID(ctx context.Context, id uint64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)

	// List returns every user ordered by ID.
	List(ctx context.Context) ([]models.User, error)

	// Update merges the non-nil fields of patch into the stored user.
	Update(ctx context.Context, id uint64, patch UserPatch) (*models.User, error)

	// Delete removes the user's tasks and then the user. It reports whether a user was removed.
	Delete(ctx context.Context, id uint64) (bool, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create stores a new task. Completed is always false on creation.
	Create(ctx context.Context, task *models.Task) error

	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// ListByUser returns the filtered tasks of one user, never nil.
	ListByUser(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update replaces every editable field of the task.
	Update(ctx context.Context, id uint64, fields TaskFields) (*models.Task, error)

	Delete(ctx context.Context, id uint64) (bool, error)
}

// PreferenceRepository stores notification preferences keyed by user ID.
type PreferenceRepository interface {
	// Get returns the defaults when nothing has been saved.
	Get(ctx context.Context, userID uint64) (models.NotificationPreferences, error)
	Save(ctx context.Context, userID uint64, prefs models.NotificationPreferences) error
	Delete(ctx context.Context, userID uint64) error
}

// UserPatch holds optional user field changes. Nil fields are left as they are.
type UserPatch struct {
	Username       *string
	Email          *string
	PasswordHash   *string
	Name           *string
	Role           *models.UserRole
	GoogleID       *string
	ProfilePicture *string
}

func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.PasswordHash == nil && p.Name == nil &&
		p.Role == nil && p.GoogleID == nil && p.ProfilePicture == nil
}

func (p UserPatch) apply(user *models.User) {
	if p.Username != nil {
		user.Username = *p.Username
	}
	if p.Email != nil {
		user.Email = *p.Email
	}
	if p.PasswordHash != nil {
		user.PasswordHash = *p.PasswordHash
	}
	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Role != nil {
		user.Role = *p.Role
	}
	if p.GoogleID != nil {
		googleID := *p.GoogleID
		user.GoogleID = &googleID
	}
	if p.ProfilePicture != nil {
		picture := *p.ProfilePicture
		user.ProfilePicture = &picture
	}
}

// TaskFields are the user-editable task columns.
type TaskFields struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     string
	Tag         models.TaskTag
	Completed   bool
}

func (f TaskFields) apply(task *models.Task) {
	task.Title = f.Title
	task.Description = f.Description
	task.Priority = f.Priority
	task.DueDate = f.DueDate
	task.Tag = f.Tag
	task.Completed = f.Completed
}

type TaskStatus string

const (
	TaskStatusAll       TaskStatus = "all"
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID uint64
	Status TaskStatus
	// Tag is ignored when empty.
	Tag models.TaskTag
	// Search matches title or description, case-insensitive.
	Search string
}
