package repository

import (
	"context"
	"strings"

	"github.com/taskflow/taskflow-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db    *gorm.DB
	retry retryPolicy
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db, retry: defaultRetry}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	task.Completed = false
	return translateError(r.db.WithContext(ctx).Create(task).Error)
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	err := r.retry.do(ctx, func() error {
		return r.db.WithContext(ctx).First(&task, id).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// ListByUser retrieves one user's tasks ordered by due date
func (r *GormTaskRepository) ListByUser(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.retry.do(ctx, func() error {
		return r.filtered(ctx, filter).Order("tasks.due_date ASC, tasks.id ASC").Find(&tasks).Error
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *GormTaskRepository) filtered(ctx context.Context, filter TaskFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("tasks.user_id = ?", filter.UserID)

	switch filter.Status {
	case TaskStatusPending:
		query = query.Where("tasks.completed = ?", false)
	case TaskStatusCompleted:
		query = query.Where("tasks.completed = ?", true)
	}
	if filter.Tag != "" {
		query = query.Where("tasks.tag = ?", filter.Tag)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ?", pattern, pattern)
	}
	return query
}

// Update replaces the editable fields of a task
func (r *GormTaskRepository) Update(ctx context.Context, id uint64, fields TaskFields) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}
		fields.apply(&task)
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
