package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, true)

	if err := newRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
