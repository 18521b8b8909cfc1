package main

import (
	"os"
	"slices"

	"lodge/config"
	"lodge/helper"
	"lodge/shared/logger"

	"github.com/rs/zerolog/log"
)

const argLength = 2

func main() {
	logger.InitLogger()

	actions := helper.Actions()

	if len(os.Args) < argLength || !slices.Contains(actions, os.Args[1]) {
		log.Fatal().Strs("actions", actions).Msg("Migration action is required")
	}

	cfg := config.Get()

	if err := helper.Runner(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("Migration failed")
	}
}
