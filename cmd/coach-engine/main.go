package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/evida/coach-engine/internal/api"
	"github.com/evida/coach-engine/internal/artifacts"
	"github.com/evida/coach-engine/internal/config"
	"github.com/evida/coach-engine/internal/extract"
	"github.com/evida/coach-engine/internal/llm"
	"github.com/evida/coach-engine/internal/pipeline"
)

var version = "dev"

func main() {
	startTime := time.Now()

	var overrides config.Overrides
	flag.StringVar(&overrides.EnvFile, "env-file", "", "path to .env file")
	flag.StringVar(&overrides.HTTPAddr, "addr", "", "HTTP listen address")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.StringVar(&overrides.OutputDir, "output-dir", "", "artifact output root")
	flag.Parse()

	// Config
	cfg, err := config.Load(overrides)
	if err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("failed to load config")
	}

	// Logger
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	log.Info().Str("version", version).Msg("coach-engine starting")
	if cfg.WebhookSecret == "" {
		log.Warn().Msg("MEETING_PROVIDER_WEBHOOK_SECRET not set; webhook signature verification is disabled")
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pipeline: model client and artifact writer are constructed once here
	// and injected; nothing holds ambient client state.
	llmClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAILLMModel, cfg.LLMTimeout)
	pipe := pipeline.New(
		extract.New(llmClient, log),
		artifacts.NewWriter(cfg.OutputDir),
		log,
	)

	// HTTP Server
	httpLog := log.With().Str("component", "http").Logger()
	srv := api.NewServer(cfg, pipe, version, startTime, httpLog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	// Graceful shutdown with 10s timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	log.Info().Msg("coach-engine stopped")
}
