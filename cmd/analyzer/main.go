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
	"macrosig/internal/model"
	"macrosig/internal/notify"
	sig "macrosig/internal/signal"
)

func main() {
	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandling(cancel)

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting signal analyzer")
	printConfig(cfg)

	// 3. Setup API clients and pipelines
	timeout := time.Duration(cfg.RequestTimeout) * time.Second

	chartsClient := charts.NewClient(charts.ClientOptions{
		BaseURL:        cfg.ChartBaseURL,
		Chart:          cfg.ChartName,
		RequestTimeout: timeout,
	})
	fredClient := fred.NewClient(fred.ClientOptions{
		RelayURL:       cfg.RelayURL,
		RequestTimeout: timeout,
	})

	shortTerm := sig.NewShortTerm(chartsClient, cfg.ChartTimespan)
	midTerm := sig.NewMidTerm(fredClient, cfg.SeriesID, cfg.FredAPIKey)

	// 4. Run both pipelines once. They are independent; one failing does
	// not stop the other.
	shortResult, err := shortTerm.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Short-term pipeline failed")
	} else {
		log.Info().Str("signal", string(shortResult)).Msg("Short-term: BTC monthly MACD")
	}

	midResult, err := midTerm.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Mid-term pipeline failed")
	} else {
		log.Info().
			Str("signal", string(midResult.Signal)).
			Str("latest", midResult.LatestMonth).
			Float64("delta", midResult.Delta).
			Msg("Mid-term: M2 YoY momentum")
	}

	// 5. Push to Telegram when configured
	notifyResults(cfg, shortResult, midResult)
}

func notifyResults(cfg *config.Config, shortResult model.Classification, midResult *model.SignalResult) {
	notifier, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Telegram notifier")
		return
	}
	if notifier == nil {
		return
	}
	if err := notifier.SendSummary(shortResult, midResult); err != nil {
		log.Error().Err(err).Msg("Failed to send Telegram summary")
	}
}

// setupSignalHandling configures signal handling for graceful shutdown
func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, exiting...")
		cancel()
	}()
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

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Str("ChartName", cfg.ChartName).
		Str("ChartTimespan", cfg.ChartTimespan).
		Str("SeriesID", cfg.SeriesID).
		Str("RelayURL", cfg.RelayURL).
		Int("RequestTimeout", cfg.RequestTimeout).
		Msg("Configuration loaded")
}
