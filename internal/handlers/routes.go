package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/constants"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/logger"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/oauth"
	"github.com/taskflow/taskflow-api/internal/services"
)

// Dependencies is everything the HTTP layer needs. OAuthProvider and
// SessionStore may be nil when Google login is not configured.
type Dependencies struct {
	AuthService   *services.AuthService
	TaskService   *services.TaskService
	UserService   *services.UserService
	AdminService  *services.AdminService
	ExportService *services.ExportService

	OAuthProvider oauth.Provider
	SessionStore  sessions.Store

	ClientURL      string
	CORSOrigin     string
	RequestTimeout time.Duration
	StaticDir      string
}

// NewRouter builds the engine with the standard middleware chain and all routes.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware())
	if deps.CORSOrigin != "" {
		r.Use(middleware.CORS(deps.CORSOrigin))
	}
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	RegisterRoutes(r, deps)
	return r
}

// RegisterRoutes mounts /health and the /api tree on r.
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.AuthService, deps.OAuthProvider, deps.ClientURL)
	taskHandler := NewTaskHandler(deps.TaskService, deps.ExportService)
	userHandler := NewUserHandler(deps.UserService)
	adminHandler := NewAdminHandler(deps.AdminService)

	requireAuth := middleware.RequireAuth(deps.AuthService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "TaskFlow API is running",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)

			oauthGroup := auth.Group("/oauth")
			if deps.SessionStore != nil {
				oauthGroup.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))
			}
			oauthGroup.GET("/start", authHandler.OAuthStart)
			oauthGroup.GET("/callback", authHandler.OAuthCallback)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			requireOwner := middleware.RequireTaskOwner(deps.TaskService)

			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/export", taskHandler.ExportTasks)
			tasks.POST("/suggest", taskHandler.SuggestTasks)
			tasks.GET("/:id", requireOwner, taskHandler.GetTask)
			tasks.PUT("/:id", requireOwner, taskHandler.UpdateTask)
			tasks.PATCH("/:id/toggle", requireOwner, taskHandler.ToggleTask)
			tasks.DELETE("/:id", requireOwner, taskHandler.DeleteTask)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.PUT("/profile", userHandler.UpdateProfile)
			users.POST("/change-password", userHandler.ChangePassword)
			users.GET("/notifications", userHandler.GetNotifications)
			users.PUT("/notifications", userHandler.UpdateNotifications)
		}

		admin := api.Group("/admin")
		admin.Use(requireAuth, middleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}

	r.NoRoute(spaFallback(deps.StaticDir))
}

// spaFallback serves files from dir and answers index.html for any other
// non-API path so client-side routing works. API paths stay 404.
func spaFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if dir == "" || strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			apierrors.NotFound(c, "Route not found")
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
