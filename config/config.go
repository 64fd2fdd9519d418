package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// HTTP
	APIAddr     string
	MetricsAddr string
	// TOTPSecret guards mutating endpoints when set; empty disables the guard.
	TOTPSecret string

	// Price source: "finnhub" or "sim"
	PriceSource    string
	FinnhubAPIKey  string
	FinnhubBaseURL string

	// Infrastructure
	RedisAddr     string // empty disables the quote cache
	RedisPassword string
	RedisDB       int
	SQLitePath    string // empty disables the trade journal

	// Monitor loop
	MonitorInterval time.Duration

	// Alert delivery (all optional)
	AlertWebhookURL  string
	TelegramBotToken string
	TelegramChatID   string

	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	cfg := &Config{
		APIAddr:     getEnv("API_ADDR", ":8080"),
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		TOTPSecret:  getEnv("API_TOTP_SECRET", ""),

		PriceSource:    getEnv("PRICE_SOURCE", "sim"),
		FinnhubAPIKey:  getEnv("FINNHUB_API_KEY", ""),
		FinnhubBaseURL: getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		SQLitePath:    getEnv("SQLITE_PATH", "data/trades.db"),

		MonitorInterval: getEnvDuration("MONITOR_INTERVAL", 30*time.Second),

		AlertWebhookURL:  getEnv("ALERT_WEBHOOK_URL", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.PriceSource == "finnhub" && cfg.FinnhubAPIKey == "" {
		log.Fatalf("[config] FINNHUB_API_KEY required when PRICE_SOURCE=finnhub")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
