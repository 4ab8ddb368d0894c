package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// RedisURL is the save-game store address, host:port.
	RedisURL string

	// GeminiAPIKey enables the live narrator. Empty means the server
	// refuses to start unless MockNarrator is set.
	GeminiAPIKey    string
	GeminiModel     string
	GeminiLiteModel string

	// SaveSlot is the storage slot the server plays in.
	SaveSlot string

	// MockNarrator swaps the live narrator for canned fallbacks, for
	// local development without an API key.
	MockNarrator bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiLiteModel: getEnv("GEMINI_LITE_MODEL", "gemini-2.5-flash-lite"),
		SaveSlot:        getEnv("SAVE_SLOT", "default"),
		MockNarrator:    strings.EqualFold(getEnv("MOCK_NARRATOR", "false"), "true"),
	}

	if cfg.GeminiAPIKey == "" && !cfg.MockNarrator {
		return nil, fmt.Errorf("GEMINI_API_KEY is required unless MOCK_NARRATOR=true")
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
