package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow-api/internal/auth"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/notify"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/schema"
)

type recordingMailer struct {
	sent []notify.Message
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type testEnv struct {
	ctx    context.Context
	users  repository.UserRepository
	tasks  repository.TaskRepository
	prefs  repository.PreferenceRepository
	mailer *recordingMailer

	auth   *AuthService
	task   *TaskService
	user   *UserService
	admin  *AdminService
	export *ExportService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	store := repository.NewMemoryStore()
	prefs := repository.NewMemoryPreferenceRepository()
	mailer := &recordingMailer{}
	notifier := notify.NewNotifier(mailer, prefs)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return testEnv{
		ctx:    context.Background(),
		users:  store.Users(),
		tasks:  store.Tasks(),
		prefs:  prefs,
		mailer: mailer,
		auth:   NewAuthService(store.Users(), tokens, auth.NewMemoryRevocationStore(), notifier),
		task:   NewTaskService(store.Tasks(), nil),
		user:   NewUserService(store.Users(), prefs, notifier),
		admin:  NewAdminService(store.Users(), prefs),
		export: NewExportService(store.Tasks()),
	}
}

func (env testEnv) register(t *testing.T, username, email string) *models.User {
	t.Helper()
	user, err := env.auth.Register(env.ctx, schema.RegisterInput{
		Username: username,
		Password: "secret1",
		Email:    email,
		Name:     username,
	})
	require.NoError(t, err)
	return user
}

func (env testEnv) promote(t *testing.T, userID uint64) {
	t.Helper()
	role := models.RoleAdmin
	_, err := env.users.Update(env.ctx, userID, repository.UserPatch{Role: &role})
	require.NoError(t, err)
}

func taskForm(title string) schema.TaskForm {
	return schema.TaskForm{
		Title:    title,
		Priority: models.PriorityLow,
		DueDate:  "2024-01-01",
		Tag:      models.TagShopping,
	}
}
