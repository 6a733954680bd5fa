// Package app assembles storage, services and the router from configuration.
// The server and taskflowctl share it so both see the same wiring.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/taskflow/taskflow-api/internal/auth"
	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/database"
	"github.com/taskflow/taskflow-api/internal/handlers"
	"github.com/taskflow/taskflow-api/internal/logger"
	"github.com/taskflow/taskflow-api/internal/notify"
	"github.com/taskflow/taskflow-api/internal/oauth"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/services"
	"gorm.io/gorm"
)

// App holds the long-lived resources of one process.
type App struct {
	Config *config.Config

	DB    *gorm.DB
	Redis *redis.Client

	Users repository.UserRepository
	Tasks repository.TaskRepository
	Prefs repository.PreferenceRepository

	Tokens *auth.TokenManager

	AuthService   *services.AuthService
	TaskService   *services.TaskService
	UserService   *services.UserService
	AdminService  *services.AdminService
	ExportService *services.ExportService
}

// New opens storage and builds every service. Redis is optional: without
// REDIS_URL revocations and preferences are kept in process memory.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if cfg.DBDriver == database.DriverMemory {
		store := repository.NewMemoryStore()
		a.Users = store.Users()
		a.Tasks = store.Tasks()
	} else {
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		a.DB = db
		a.Users = repository.NewUserRepository(db)
		a.Tasks = repository.NewTaskRepository(db)
	}

	var revocations auth.RevocationStore
	if cfg.RedisURL != "" {
		client, err := database.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = client
		revocations = auth.NewRedisRevocationStore(client)
		a.Prefs = repository.NewRedisPreferenceRepository(client)
	} else {
		revocations = auth.NewMemoryRevocationStore()
		a.Prefs = repository.NewMemoryPreferenceRepository()
	}

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.SendGridAPIKey != "" {
		mailer = notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom)
	}
	notifier := notify.NewNotifier(mailer, a.Prefs)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	a.Tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	a.AuthService = services.NewAuthService(a.Users, a.Tokens, revocations, notifier)
	a.TaskService = services.NewTaskService(a.Tasks, aiService)
	a.UserService = services.NewUserService(a.Users, a.Prefs, notifier)
	a.AdminService = services.NewAdminService(a.Users, a.Prefs)
	a.ExportService = services.NewExportService(a.Tasks)
	return a, nil
}

// Migrate brings the relational schema up to date. It is a no-op for the memory store.
func (a *App) Migrate() error {
	if a.DB == nil {
		return nil
	}
	return database.MigrateDatabase(a.DB)
}

// Router builds the HTTP engine for the server.
func (a *App) Router() (*gin.Engine, error) {
	cfg := a.Config

	deps := handlers.Dependencies{
		AuthService:    a.AuthService,
		TaskService:    a.TaskService,
		UserService:    a.UserService,
		AdminService:   a.AdminService,
		ExportService:  a.ExportService,
		ClientURL:      cfg.ClientURL,
		CORSOrigin:     cfg.CORSOrigin,
		RequestTimeout: cfg.RequestTimeout,
		StaticDir:      cfg.StaticDir,
	}

	if cfg.GoogleOAuthEnabled() {
		store, err := a.sessionStore()
		if err != nil {
			return nil, err
		}
		deps.OAuthProvider = oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
		deps.SessionStore = store
	}

	return handlers.NewRouter(deps), nil
}

// sessionStore keeps the short-lived OAuth state in redis when available, else in a signed cookie.
func (a *App) sessionStore() (sessions.Store, error) {
	var store sessions.Store
	if a.Redis != nil {
		opt := a.Redis.Options()
		rs, err := redisStore.NewStore(
			10,
			"tcp",
			opt.Addr,
			opt.Username,
			opt.Password,
			[]byte(a.Config.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis session store: %w", err)
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(a.Config.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(constants.OAuthStateMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   a.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// SeedIfRequested loads the sample account when SEED_SAMPLE_DATA is set.
func (a *App) SeedIfRequested(ctx context.Context) error {
	if !a.Config.SeedSampleData {
		return nil
	}
	created, err := services.SeedSampleData(ctx, a.Users, a.Tasks)
	if err != nil {
		return fmt.Errorf("failed to seed sample data: %w", err)
	}
	if created {
		logger.InfoLog(ctx, "sample data created")
	}
	return nil
}

// Close releases database and redis connections.
func (a *App) Close() {
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			logger.WarnLog(context.Background(), "failed to close database: %v", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.WarnLog(context.Background(), "failed to close redis: %v", err)
		}
	}
}
