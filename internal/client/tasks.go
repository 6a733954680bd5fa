package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/taskflow/taskflow-api/internal/dto"
	"github.com/taskflow/taskflow-api/internal/schema"
)

// Tasks lists tasks matching query. The last result is served from cache
// until a task mutation or a different query.
func (c *Client) Tasks(ctx context.Context, query schema.TaskQuery) ([]dto.TaskDTO, error) {
	if err := schema.Validate(query); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.tasks != nil && sameQuery(c.tasks.query, query) {
		cached := append([]dto.TaskDTO(nil), c.tasks.tasks...)
		c.mu.Unlock()
		return cached, nil
	}
	gen := c.tasksGen
	c.mu.Unlock()

	var tasks []dto.TaskDTO
	if err := c.do(ctx, http.MethodGet, "/api/tasks"+encodeQuery(query), true, nil, &tasks); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.tasksGen == gen {
		c.tasks = &taskCache{query: query, tasks: tasks}
	}
	c.mu.Unlock()
	return append([]dto.TaskDTO(nil), tasks...), nil
}

func (c *Client) CreateTask(ctx context.Context, form schema.TaskForm) (dto.TaskDTO, error) {
	if err := schema.Validate(form); err != nil {
		return dto.TaskDTO{}, err
	}

	var task dto.TaskDTO
	err := c.do(ctx, http.MethodPost, "/api/tasks", true, form, &task)
	c.invalidateTasks()
	return task, err
}

// UpdateTask replaces every editable field of the task.
func (c *Client) UpdateTask(ctx context.Context, id uint64, form schema.TaskForm) (dto.TaskDTO, error) {
	if err := schema.Validate(form); err != nil {
		return dto.TaskDTO{}, err
	}

	var task dto.TaskDTO
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), true, form, &task)
	c.invalidateTasks()
	return task, err
}

func (c *Client) ToggleTask(ctx context.Context, id uint64) (dto.TaskDTO, error) {
	var task dto.TaskDTO
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/toggle", id), true, nil, &task)
	c.invalidateTasks()
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, id uint64) error {
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), true, nil, nil)
	c.invalidateTasks()
	return err
}

// ExportTasks downloads the caller's tasks as an xlsx workbook.
func (c *Client) ExportTasks(ctx context.Context) ([]byte, error) {
	var data []byte
	if err := c.do(ctx, http.MethodGet, "/api/tasks/export", true, nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// SuggestTasks asks the server for AI task proposals. Nothing is saved.
func (c *Client) SuggestTasks(ctx context.Context, text string) ([]dto.SuggestedTaskDTO, error) {
	var resp struct {
		Tasks []dto.SuggestedTaskDTO `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tasks/suggest", true, map[string]string{"text": text}, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func sameQuery(a, b schema.TaskQuery) bool {
	if (a.UserID == nil) != (b.UserID == nil) {
		return false
	}
	if a.UserID != nil && *a.UserID != *b.UserID {
		return false
	}
	return a.Status == b.Status && a.Tag == b.Tag && a.Search == b.Search
}

func encodeQuery(q schema.TaskQuery) string {
	values := url.Values{}
	if q.UserID != nil {
		values.Set("userId", strconv.FormatUint(*q.UserID, 10))
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Tag != "" {
		values.Set("tag", q.Tag)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
