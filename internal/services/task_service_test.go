package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/schema"
)

func TestTaskLifecycle_BuyMilkScenario(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice", "a@x.io")

	created, err := env.task.CreateTask(env.ctx, alice.ID, taskForm("Buy milk"))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, created.UserID)

	tasks, err := env.task.ListTasks(env.ctx, ListTasksInput{ActorID: alice.ID, ActorRole: alice.Role})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.False(t, tasks[0].Completed)

	toggled, err := env.task.ToggleTask(env.ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	again, err := env.task.ToggleTask(env.ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, again.Completed, "toggling twice restores the original value")
}

func TestCreateTask_IgnoresCompletedAndValidates(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice", "a@x.io")

	form := taskForm("  Buy milk  ")
	form.Completed = true
	created, err := env.task.CreateTask(env.ctx, alice.ID, form)
	require.NoError(t, err)
	assert.False(t, created.Completed)
	assert.Equal(t, "Buy milk", created.Title)

	_, err = env.task.CreateTask(env.ctx, alice.ID, schema.TaskForm{Title: "x", Priority: "critical", DueDate: "2024-01-01", Tag: models.TagWork})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priority", verr.Fields[0].Field)
}

func TestListTasks_OtherUserRequiresAdmin(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice", "a@x.io")
	bob := env.register(t, "bob", "b@x.io")
	_, err := env.task.CreateTask(env.ctx, bob.ID, taskForm("Bob's task"))
	require.NoError(t, err)

	_, err = env.task.ListTasks(env.ctx, ListTasksInput{
		ActorID: alice.ID, ActorRole: models.RoleUser,
		Query: schema.TaskQuery{UserID: &bob.ID},
	})
	assert.ErrorIs(t, err, ErrForbidden)

	own, err := env.task.ListTasks(env.ctx, ListTasksInput{
		ActorID: alice.ID, ActorRole: models.RoleUser,
		Query: schema.TaskQuery{UserID: &alice.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, own)

	asAdmin, err := env.task.ListTasks(env.ctx, ListTasksInput{
		ActorID: alice.ID, ActorRole: models.RoleAdmin,
		Query: schema.TaskQuery{UserID: &bob.ID},
	})
	require.NoError(t, err)
	assert.Len(t, asAdmin, 1)
}

func TestListTasks_Filters(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice", "a@x.io")

	milk, err := env.task.CreateTask(env.ctx, alice.ID, taskForm("Buy milk"))
	require.NoError(t, err)
	work := taskForm("Write report")
	work.Tag = models.TagWork
	_, err = env.task.CreateTask(env.ctx, alice.ID, work)
	require.NoError(t, err)
	_, err = env.task.ToggleTask(env.ctx, milk.ID)
	require.NoError(t, err)

	list := func(q schema.TaskQuery) []models.Task {
		tasks, err := env.task.ListTasks(env.ctx, ListTasksInput{ActorID: alice.ID, ActorRole: alice.Role, Query: q})
		require.NoError(t, err)
		return tasks
	}

	assert.Len(t, list(schema.TaskQuery{Status: "all", Tag: "all"}), 2)
	assert.Len(t, list(schema.TaskQuery{Status: "completed"}), 1)
	assert.Len(t, list(schema.TaskQuery{Tag: "Work"}), 1)
	assert.Len(t, list(schema.TaskQuery{Search: "MILK"}), 1)

	_, err = env.task.ListTasks(env.ctx, ListTasksInput{ActorID: alice.ID, Query: schema.TaskQuery{Status: "done"}})
	var verr *schema.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAuthorizeTask(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice", "a@x.io")
	bob := env.register(t, "bob", "b@x.io")
	task, err := env.task.CreateTask(env.ctx, alice.ID, taskForm("Buy milk"))
	require.NoError(t, err)

	_, err = env.task.AuthorizeTask(env.ctx, task.ID, alice.ID)
	assert.NoError(t, err)

	_, err = env.task.AuthorizeTask(env.ctx, task.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotTaskOwner)

	_, err = env.task.AuthorizeTask(env.ctx, 9999, alice.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdateAndDeleteTask(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice", "a@x.io")
	task, err := env.task.CreateTask(env.ctx, alice.ID, taskForm("Buy milk"))
	require.NoError(t, err)

	form := taskForm("Buy oat milk")
	form.Completed = true
	updated, err := env.task.UpdateTask(env.ctx, task.ID, form)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.True(t, updated.Completed)

	_, err = env.task.UpdateTask(env.ctx, 9999, form)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	require.NoError(t, env.task.DeleteTask(env.ctx, task.ID))
	assert.ErrorIs(t, env.task.DeleteTask(env.ctx, task.ID), ErrTaskNotFound)
	_, err = env.task.ToggleTask(env.ctx, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSuggestTasks_NotConfigured(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.task.SuggestTasks(env.ctx, "buy milk tomorrow")
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)
}
