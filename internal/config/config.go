package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	// GeminiAPIKey is required for price searches. Its absence is not a
	// startup failure; the price fetcher rejects searches until it is set.
	GeminiAPIKey string
	GeminiModel  string

	// RAWGAPIKey is optional. Without it the metadata lookup degrades to
	// empty results.
	RAWGAPIKey string

	ExchangeRateURL string
	DBPath          string
	ServerPort      string
	LogLevel        string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		RAWGAPIKey:      getEnv("RAWG_API_KEY", ""),
		ExchangeRateURL: getEnv("EXCHANGE_RATE_URL", "https://open.er-api.com/v6/latest/USD"),
		DBPath:          getEnv("DB_PATH", "gameprices.db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("model", cfg.GeminiModel).
		Bool("gemini_key_set", cfg.GeminiAPIKey != "").
		Bool("rawg_key_set", cfg.RAWGAPIKey != "").
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
