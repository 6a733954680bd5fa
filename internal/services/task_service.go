package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/schema"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	aiService *AIService
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(taskRepo repository.TaskRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		aiService: aiService,
	}
}

// ListTasksInput identifies the caller and the requested filter
type ListTasksInput struct {
	ActorID   uint64
	ActorRole models.UserRole
	Query     schema.TaskQuery
}

// ListTasks returns the caller's tasks. Only administrators may list another user's tasks.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	if err := schema.Validate(input.Query); err != nil {
		return nil, err
	}

	target := input.ActorID
	if input.Query.UserID != nil && *input.Query.UserID != input.ActorID {
		if input.ActorRole != models.RoleAdmin {
			return nil, ErrForbidden
		}
		target = *input.Query.UserID
	}

	filter := repository.TaskFilter{
		UserID: target,
		Status: repository.TaskStatus(input.Query.Status),
		Search: input.Query.Search,
	}
	if input.Query.Tag != "" && input.Query.Tag != "all" {
		filter.Tag = models.TaskTag(input.Query.Tag)
	}

	tasks, err := s.taskRepo.ListByUser(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// AuthorizeTask loads a task and checks that actorID owns it.
func (s *TaskService) AuthorizeTask(ctx context.Context, taskID, actorID uint64) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != actorID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

// CreateTask stores a new task owned by ownerID. Completion status always starts false.
func (s *TaskService) CreateTask(ctx context.Context, ownerID uint64, form schema.TaskForm) (*models.Task, error) {
	form = normalizeTaskForm(form)
	if err := schema.Validate(form); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       form.Title,
		Description: form.Description,
		Priority:    form.Priority,
		DueDate:     form.DueDate,
		Tag:         form.Tag,
		UserID:      ownerID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTask replaces all editable fields of a task
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, form schema.TaskForm) (*models.Task, error) {
	form = normalizeTaskForm(form)
	if err := schema.Validate(form); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.Update(ctx, taskID, repository.TaskFields{
		Title:       form.Title,
		Description: form.Description,
		Priority:    form.Priority,
		DueDate:     form.DueDate,
		Tag:         form.Tag,
		Completed:   form.Completed,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// ToggleTask flips the completion flag.
func (s *TaskService) ToggleTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	current, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	fields := fieldsOf(*current)
	fields.Completed = !current.Completed

	task, err := s.taskRepo.Update(ctx, taskID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}
	return task, nil
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	deleted, err := s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

// SuggestTasks asks the AI service for task proposals. Nothing is saved.
func (s *TaskService) SuggestTasks(ctx context.Context, text string) ([]schema.TaskForm, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, schema.Invalid("text", "Text is required")
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAISuggestedTasks {
		aiTasks = aiTasks[:constants.MaxAISuggestedTasks]
	}

	today := s.aiService.now().Format("2006-01-02")
	valid := make([]schema.TaskForm, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		form := normalizeTaskForm(schema.TaskForm{
			Title:       aiTask.Title,
			Description: aiTask.Description,
			Priority:    aiTask.Priority,
			DueDate:     aiTask.DueDate,
			Tag:         aiTask.Tag,
		})
		if form.Priority == "" {
			form.Priority = models.PriorityMedium
		}
		if form.Tag == "" {
			form.Tag = models.TagPersonal
		}
		if form.DueDate == "" {
			form.DueDate = today
		}
		if schema.Validate(form) != nil {
			continue
		}
		valid = append(valid, form)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}

func normalizeTaskForm(form schema.TaskForm) schema.TaskForm {
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	form.DueDate = strings.TrimSpace(form.DueDate)
	return form
}

func fieldsOf(task models.Task) repository.TaskFields {
	return repository.TaskFields{
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Tag:         task.Tag,
		Completed:   task.Completed,
	}
}
