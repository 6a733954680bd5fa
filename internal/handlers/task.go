package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/dto"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/schema"
	"github.com/taskflow/taskflow-api/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TaskHandler struct {
	taskService   *services.TaskService
	exportService *services.ExportService
}

func NewTaskHandler(taskService *services.TaskService, exportService *services.ExportService) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		exportService: exportService,
	}
}

// ListTasks returns the caller's tasks, optionally filtered by status, tag and search text
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var query schema.TaskQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apierrors.BadRequest(c, "Invalid query parameters")
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), services.ListTasksInput{
		ActorID:   user.ID,
		ActorRole: user.Role,
		Query:     query,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a task owned by the caller. Any userId in the body is ignored.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req schema.TaskForm
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns the task loaded by RequireTaskOwner
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask replaces all editable fields of the task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	var req schema.TaskForm
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), task.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// ToggleTask flips the completion status
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	toggled, err := h.taskService.ToggleTask(c.Request.Context(), task.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*toggled))
}

// DeleteTask deletes the task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), task.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// ExportTasks downloads the caller's tasks as a spreadsheet
func (h *TaskHandler) ExportTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.ExportTasks(c.Request.Context(), userID, &buf); err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("tasks-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// SuggestTasks proposes tasks extracted from free text. Nothing is saved.
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	type SuggestRequest struct {
		Text string `json:"text"`
	}

	var req SuggestRequest
	if !bindJSON(c, &req) {
		return
	}

	forms, err := h.taskService.SuggestTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	suggestions := make([]dto.SuggestedTaskDTO, 0, len(forms))
	for _, f := range forms {
		suggestions = append(suggestions, dto.SuggestedTaskDTO{
			Title:       f.Title,
			Description: f.Description,
			Priority:    f.Priority,
			DueDate:     f.DueDate,
			Tag:         f.Tag,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tasks": suggestions})
}
