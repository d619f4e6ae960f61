// Package main provides the entry point for the appmatch service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quantive/appmatch/internal/ai/openai"
	"github.com/quantive/appmatch/internal/catalog/pgvector"
	"github.com/quantive/appmatch/internal/config"
	"github.com/quantive/appmatch/internal/extraction"
	"github.com/quantive/appmatch/internal/matching"
	"github.com/quantive/appmatch/internal/server"
	"github.com/quantive/appmatch/internal/session"
)

var Version = "dev"

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().
		Str("version", Version).
		Msg("Starting appmatch service")

	cfg := config.Get()
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("APPMATCH_DATABASE_URL is required")
	}

	provider, err := openai.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create AI provider")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := pgvector.NewClient(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect catalog store")
	}
	defer store.Close()

	machine := session.NewMachine(
		extraction.New(provider),
		session.NewQuestionGenerator(provider),
	)
	matchSvc := matching.NewService(provider, store)

	svc := server.NewService(Version, cfg, machine, matchSvc)
	if err := svc.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start service")
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := svc.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}

	log.Info().Msg("Service shutdown complete")
}
