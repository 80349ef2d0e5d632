package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"macrosig/internal/api/fred"
)

// Config holds all application configuration. The pipelines never read the
// environment themselves; everything they need arrives through this struct.
type Config struct {
	Port           int    `validate:"gt=0,lte=65535"`
	LogLevel       string `validate:"required"`
	RequestTimeout int    `validate:"gt=0"` // seconds

	ChartBaseURL  string `validate:"url"`
	ChartName     string `validate:"required"`
	ChartTimespan string `validate:"required"`

	FredBaseURL string `validate:"url"`
	FredAPIKey  string
	SeriesID    string `validate:"required"`
	RelayURL    string `validate:"url"`

	CacheTTL  int `validate:"gte=0"` // seconds
	StaticDir string

	TelegramToken  string
	TelegramChatID int64
}

// Load initializes configuration from environment variables.
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		Port:           getEnvIntWithDefault("PORT", 8787),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		RequestTimeout: getEnvIntWithDefault("REQUEST_TIMEOUT", 12),

		ChartBaseURL:  getEnvWithDefault("CHART_BASE_URL", "https://api.blockchain.info/charts"),
		ChartName:     getEnvWithDefault("CHART_NAME", "market-price"),
		ChartTimespan: getEnvWithDefault("CHART_TIMESPAN", "5years"),

		FredBaseURL: getEnvWithDefault("FRED_BASE_URL", "https://api.stlouisfed.org/fred"),
		FredAPIKey:  os.Getenv("FRED_API_KEY"),
		SeriesID:    getEnvWithDefault("FRED_SERIES_ID", "M2SL"),
		RelayURL:    getEnvWithDefault("RELAY_URL", fred.DefaultRelayURL),

		CacheTTL:  getEnvIntWithDefault("CACHE_TTL", 300),
		StaticDir: getEnvWithDefault("STATIC_DIR", "web"),

		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
