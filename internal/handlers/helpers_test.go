package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow-api/internal/auth"
	"github.com/taskflow/taskflow-api/internal/database"
	"github.com/taskflow/taskflow-api/internal/dto"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/notify"
	"github.com/taskflow/taskflow-api/internal/oauth"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testClientURL = "http://client.test"

type fakeProvider struct {
	profile *oauth.Profile
	err     error
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.test/auth?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*oauth.Profile, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}

type apiTestEnv struct {
	db       *gorm.DB
	users    repository.UserRepository
	tasks    repository.TaskRepository
	router   *gin.Engine
	provider *fakeProvider
}

func setupAPITestEnv(t *testing.T) apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Create in-memory SQLite database
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	prefs := repository.NewMemoryPreferenceRepository()
	notifier := notify.NewNotifier(notify.LogMailer{}, prefs)
	tokens := auth.NewTokenManager("handler-test-secret", time.Hour)
	provider := &fakeProvider{}

	router := NewRouter(Dependencies{
		AuthService:    services.NewAuthService(users, tokens, auth.NewMemoryRevocationStore(), notifier),
		TaskService:    services.NewTaskService(tasks, nil),
		UserService:    services.NewUserService(users, prefs, notifier),
		AdminService:   services.NewAdminService(users, prefs),
		ExportService:  services.NewExportService(tasks),
		OAuthProvider:  provider,
		SessionStore:   cookie.NewStore([]byte("session-test-secret")),
		ClientURL:      testClientURL,
		RequestTimeout: 5 * time.Second,
	})

	return apiTestEnv{
		db:       db,
		users:    users,
		tasks:    tasks,
		router:   router,
		provider: provider,
	}
}

func (env apiTestEnv) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			json.NewEncoder(&buf).Encode(b)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return serve(env, req)
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(env apiTestEnv, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// signUp registers through the API and returns the token issued with the account.
func (env apiTestEnv) signUp(t *testing.T, username, email string) (string, dto.UserDTO) {
	t.Helper()

	w := env.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "secret1",
		"email":    email,
		"name":     username,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.RegisteredUserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.UserDTO
}

func (env apiTestEnv) promote(t *testing.T, userID uint64) {
	t.Helper()
	role := models.RoleAdmin
	_, err := env.users.Update(context.Background(), userID, repository.UserPatch{Role: &role})
	require.NoError(t, err)
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func taskBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"description": "",
		"priority":    "low",
		"dueDate":     "2024-01-01",
		"tag":         "Shopping",
	}
}
