package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow-api/internal/app"
	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/database"
)

func memoryConfig() *config.Config {
	return &config.Config{
		DBDriver:       database.DriverMemory,
		JWTSecret:      "ctl-test-secret",
		JWTTTL:         time.Hour,
		SessionSecret:  "ctl-session-secret",
		RequestTimeout: 5 * time.Second,
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreateAdmin(t *testing.T) {
	out, err := run(t, memoryConfig(), "create-admin", "--email", "root@example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "created admin admin")
}

func TestCreateAdminRequiresFlags(t *testing.T) {
	_, err := run(t, memoryConfig(), "create-admin")
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	out, err := run(t, memoryConfig(), "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "sample data created")
}

func TestGenerateTokenUnknownUser(t *testing.T) {
	_, err := run(t, memoryConfig(), "generate-token", "--user-id", "42")
	assert.Error(t, err)
}

func TestRemoteTaskCommands(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := memoryConfig()
	cfg.SeedSampleData = true

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.SeedIfRequested(context.Background()))

	router, err := a.Router()
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	defer srv.Close()

	out, err := run(t, cfg, "login", "--server", srv.URL, "--email", "user@example.com", "--password", "password")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	remote := []string{"--server", srv.URL, "--token", token}

	out, err = run(t, cfg, append([]string{"tasks", "list"}, remote...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Buy groceries")

	out, err = run(t, cfg, append([]string{"tasks", "add", "Buy milk", "--due", "2024-01-01", "--tag", "Shopping"}, remote...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "created task")

	out, err = run(t, cfg, append([]string{"tasks", "list", "--search", "buy milk"}, remote...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
	assert.NotContains(t, out, "Buy groceries")

	_, err = run(t, cfg, append([]string{"tasks", "toggle", "abc"}, remote...)...)
	assert.Error(t, err)
}
