package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration parameters.
type Config struct {
	ServerPort int

	// DataSource selects where pipeline documents are read from:
	// "r2" for a Cloudflare R2 bucket, "http" for a static HTTP base.
	DataSource string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string

	HTTPBaseURL string

	LeagueDataKey      string
	TimeoutDataKey     string
	ResignationDataKey string

	RefreshInterval time.Duration

	// Policy thresholds for the derivation layer.
	RatingGapThreshold float64
	HighTimeoutPercent float64

	// Telegram digest is optional; both values must be set to enable it.
	TelegramToken  string
	TelegramChatID int64
}

// Load reads configuration from environment variables. A .env file is
// loaded when present, useful for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		ServerPort:         port,
		DataSource:         os.Getenv("DATA_SOURCE"),
		R2AccountID:        os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:  os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:       os.Getenv("R2_BUCKET_NAME"),
		HTTPBaseURL:        os.Getenv("HTTP_BASE_URL"),
		LeagueDataKey:      envOrDefault("LEAGUE_DATA_KEY", "leagueData.json"),
		TimeoutDataKey:     envOrDefault("TIMEOUT_DATA_KEY", "timeoutData.json"),
		ResignationDataKey: envOrDefault("RESIGNATION_DATA_KEY", "earlyResignations.json"),
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
	}

	if cfg.DataSource == "" {
		cfg.DataSource = "r2"
	}
	switch cfg.DataSource {
	case "r2":
		if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" {
			return nil, fmt.Errorf("R2 data source requires R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_BUCKET_NAME")
		}
	case "http":
		if cfg.HTTPBaseURL == "" {
			return nil, fmt.Errorf("HTTP data source requires HTTP_BASE_URL")
		}
	default:
		return nil, fmt.Errorf("DATA_SOURCE must be \"r2\" or \"http\", got %q", cfg.DataSource)
	}

	cfg.RefreshInterval, err = durationOrDefault("REFRESH_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.RatingGapThreshold, err = floatOrDefault("RATING_GAP_THRESHOLD", -50)
	if err != nil {
		return nil, err
	}
	cfg.HighTimeoutPercent, err = floatOrDefault("HIGH_TIMEOUT_PERCENT", 25)
	if err != nil {
		return nil, err
	}

	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID environment variable: %w", err)
		}
	}

	return cfg, nil
}

// TelegramEnabled reports whether the optional digest notifier should start.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func floatOrDefault(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return f, nil
}
