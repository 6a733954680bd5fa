package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DatabaseURL string
	SQLitePath  string

	RedisURL string

	SessionSecret  string
	JWTSecret      string
	JWTTTL         time.Duration
	RequestTimeout time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	ClientURL          string
	CORSOrigin         string

	SendGridAPIKey string
	MailFrom       string

	GinMode        string
	LogLevel       string
	OpenAIAPIKey   string
	StaticDir      string
	SeedSampleData bool
}

const (
	defaultSessionSecret = "default-secret-key-change-me"
	defaultJWTSecret     = "default-jwt-secret-change-me"
)

// Load reads configuration from the environment. Outside production a .env
// file in the working directory is loaded first when present.
func Load() *Config {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	return &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", "taskflow"),
		DBPassword:         getEnv("DB_PASSWORD", "taskflow"),
		DBName:             getEnv("DB_NAME", "taskflow"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SQLitePath:         getEnv("SQLITE_PATH", "taskflow.db"),
		RedisURL:           getEnv("REDIS_URL", ""),
		SessionSecret:      getEnv("SESSION_SECRET", defaultSessionSecret),
		JWTSecret:          getEnv("JWT_SECRET", defaultJWTSecret),
		JWTTTL:             getDuration("JWT_TTL", 24*time.Hour),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 10*time.Second),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:8080/api/auth/oauth/callback"),
		ClientURL:          strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:5173"), "/"),
		CORSOrigin:         getEnv("CORS_ORIGIN", ""),
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		MailFrom:           getEnv("MAIL_FROM", "no-reply@taskflow.local"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		StaticDir:          getEnv("STATIC_DIR", ""),
		SeedSampleData:     getBool("SEED_SAMPLE_DATA", false),
	}
}

// Validate rejects settings that are unsafe in production.
func (c *Config) Validate() error {
	if c.AppEnv != "production" {
		return nil
	}
	if c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.SessionSecret == defaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.GinMode == "release"
}

func (c *Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
