package main

import (
	"lodge/config"
	"lodge/di"
	"lodge/helper"
	"lodge/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Lodge API
// @version 1.0
// @description Stay package pricing, availability and booking service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
