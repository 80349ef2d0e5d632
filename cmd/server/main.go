package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"macrosig/internal/api/charts"
	"macrosig/internal/api/fred"
	"macrosig/internal/config"
	"macrosig/internal/server"
	sig "macrosig/internal/signal"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting relay/dashboard server")

	timeout := time.Duration(cfg.RequestTimeout) * time.Second

	chartsClient := charts.NewClient(charts.ClientOptions{
		BaseURL:        cfg.ChartBaseURL,
		Chart:          cfg.ChartName,
		RequestTimeout: timeout,
	})
	// The server-side mid-term pipeline talks to FRED directly; the key is
	// injected here rather than going through our own relay route.
	fredClient := fred.NewClient(fred.ClientOptions{
		RelayURL:       cfg.FredBaseURL + "/series/observations",
		RequestTimeout: timeout,
	})

	shortTerm := sig.NewShortTerm(chartsClient, cfg.ChartTimespan)
	midTerm := sig.NewMidTerm(fredClient, cfg.SeriesID, cfg.FredAPIKey)

	srv := server.New(cfg, shortTerm, midTerm)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case s := <-sigCh:
		log.Info().Str("signal", s.String()).Msg("Shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}

	log.Info().Msg("Server stopped")
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
