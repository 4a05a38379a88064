package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// External APIs
	JQuants JQuantsConfig
	Kabutan KabutanConfig

	// Watch list
	Watch WatchConfig

	// Screening
	Screening ScreeningConfig

	// Notification
	WebhookURL string

	// Logging
	LogLevel  string
	LogFormat string
}

// JQuantsConfig holds J-Quants API configuration.
type JQuantsConfig struct {
	RefreshToken string
	BaseURL      string
	RateLimit    float64 // requests per second against the free tier
}

// KabutanConfig holds the Kabutan price-page scraper configuration.
type KabutanConfig struct {
	BaseURL string
}

// WatchConfig holds watch-list configuration.
type WatchConfig struct {
	FilePath string // flat JSON file holding {code, entry} pairs
	Schedule string // cron expression for the periodic refresh
}

// ScreeningConfig holds sector-screening defaults.
type ScreeningConfig struct {
	DefaultLimit int
	GrowthBase   string // strict-positive | nonzero
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8091"),
		Env:  getEnv("ENV", "development"),

		JQuants: JQuantsConfig{
			RefreshToken: getEnv("JQUANTS_REFRESH_TOKEN", ""),
			BaseURL:      getEnv("JQUANTS_BASE_URL", "https://api.jquants.com/v1"),
			RateLimit:    getEnvAsFloat("JQUANTS_RATE_LIMIT", 5.0),
		},

		Kabutan: KabutanConfig{
			BaseURL: getEnv("KABUTAN_BASE_URL", "https://kabutan.jp"),
		},

		Watch: WatchConfig{
			FilePath: getEnv("WATCHLIST_FILE", "watchlist.json"),
			Schedule: getEnv("WATCH_SCHEDULE", "0 */15 9-15 * * MON-FRI"),
		},

		Screening: ScreeningConfig{
			DefaultLimit: getEnvAsInt("SCREEN_DEFAULT_LIMIT", 30),
			GrowthBase:   getEnv("SCREEN_GROWTH_BASE", "strict-positive"),
		},

		WebhookURL: getEnv("WEBHOOK_URL", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent.
// The refresh token is checked lazily by the screener instead: commands that
// never talk to J-Quants (watch-list edits) must work without one.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Screening.GrowthBase != "strict-positive" && c.Screening.GrowthBase != "nonzero" {
		return fmt.Errorf("SCREEN_GROWTH_BASE must be strict-positive or nonzero")
	}

	if c.Screening.DefaultLimit <= 0 {
		return fmt.Errorf("SCREEN_DEFAULT_LIMIT must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
