package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/taskflow/taskflow-api/internal/app"
	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.GinMode == gin.DebugMode)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	// Run migrations
	if err := application.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if err := application.SeedIfRequested(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed database")
	}

	r, err := application.Router()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	// Start server
	log.Info().Str("port", cfg.Port).Str("driver", cfg.DBDriver).Msg("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
