package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow-api/internal/auth"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/schema"
	"github.com/taskflow/taskflow-api/internal/services"
)

type middlewareEnv struct {
	authService *services.AuthService
	taskService *services.TaskService
	users       repository.UserRepository
}

func setupMiddlewareEnv(t *testing.T) middlewareEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	return middlewareEnv{
		authService: services.NewAuthService(store.Users(), auth.NewTokenManager("secret", time.Hour), auth.NewMemoryRevocationStore(), nil),
		taskService: services.NewTaskService(store.Tasks(), nil),
		users:       store.Users(),
	}
}

func (env middlewareEnv) login(t *testing.T, username string, role models.UserRole) (*models.User, string) {
	t.Helper()
	ctx := context.Background()
	user, err := env.authService.Register(ctx, schema.RegisterInput{
		Username: username, Password: "secret1", Email: username + "@x.io", Name: username,
	})
	require.NoError(t, err)
	if role != models.RoleUser {
		_, err = env.users.Update(ctx, user.ID, repository.UserPatch{Role: &role})
		require.NoError(t, err)
	}
	session, err := env.authService.IssueToken(ctx, user.ID)
	require.NoError(t, err)
	return user, session.Token
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	env := setupMiddlewareEnv(t)
	alice, token := env.login(t, "alice", models.RoleUser)

	r := gin.New()
	r.GET("/me", RequireAuth(env.authService), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		require.True(t, ok)
		assert.Equal(t, alice.ID, userID)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "garbage").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/me", token).Code)
}

func TestRequireAdmin_UsesCurrentRole(t *testing.T) {
	env := setupMiddlewareEnv(t)
	_, userToken := env.login(t, "alice", models.RoleUser)
	admin, adminToken := env.login(t, "root", models.RoleAdmin)

	r := gin.New()
	r.GET("/admin", RequireAuth(env.authService), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", userToken).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin", adminToken).Code)

	demoted := models.RoleUser
	_, err := env.users.Update(context.Background(), admin.ID, repository.UserPatch{Role: &demoted})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", adminToken).Code)
}

func TestRequireTaskOwner(t *testing.T) {
	env := setupMiddlewareEnv(t)
	alice, aliceToken := env.login(t, "alice", models.RoleUser)
	_, bobToken := env.login(t, "bob", models.RoleUser)

	task, err := env.taskService.CreateTask(context.Background(), alice.ID, schema.TaskForm{
		Title: "Buy milk", Priority: models.PriorityLow, DueDate: "2024-01-01", Tag: models.TagShopping,
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/tasks/:id", RequireAuth(env.authService), RequireTaskOwner(env.taskService), func(c *gin.Context) {
		loaded, ok := GetTask(c)
		require.True(t, ok)
		assert.Equal(t, task.ID, loaded.ID)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/tasks/1", aliceToken).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/tasks/1", bobToken).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/tasks/999", aliceToken).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/tasks/abc", aliceToken).Code)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/slow", Timeout(time.Second), func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/slow", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("https://app.example.com"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/x", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
