package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/spectrum-reader/internal/config"
	"github.com/quentinrf/spectrum-reader/internal/server"
)

func main() {
	// Read configuration from environment (optional YAML file via SPECTRUM_CONFIG)
	cfg, err := config.Load(os.Getenv("SPECTRUM_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	cfg.ConfigureLogger(os.Stderr)
	log.Info().Msg("starting spectrum service")

	// Stop on interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
