package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ROI computation strategies.
const (
	StrategySnapshot = "snapshot" // equity delta against stored baselines
	StrategyGains    = "gains"    // compounded provider daily-gain samples
)

// State backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config holds all configuration for the application.
// SSOT: every environment variable is read here and nowhere else.
type Config struct {
	Env  string // development, staging, production
	Port string // status API port (daemon mode)

	Provider ProviderConfig
	Telegram TelegramConfig
	State    StateConfig
	Redis    RedisConfig
	Report   ReportConfig

	LogLevel  string
	LogFormat string
}

// ProviderConfig holds account-data provider credentials.
type ProviderConfig struct {
	Token     string
	AccountID string
	BaseURL   string
}

// TelegramConfig holds notification credentials. Both values empty means
// notifications are disabled and the tracker only logs its report.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// Enabled reports whether the Telegram notifier can be used.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// StateConfig selects where period baselines are persisted.
type StateConfig struct {
	Backend  string // file or redis
	FilePath string // file backend
	RedisKey string // redis backend
}

// RedisConfig holds Redis connection settings for the redis state backend.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ReportConfig holds report tunables.
type ReportConfig struct {
	Timezone string // IANA zone name for period rollover
	Header   string // prepended to every notification
	Strategy string // snapshot or gains
	Schedule string // cron expression, daemon mode (with seconds field)
}

// Location resolves the configured timezone. An unresolvable zone name
// (e.g. a container without tzdata) falls back to a fixed UTC+7 offset,
// matching the default reporting zone.
func (c ReportConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*60*60)
}

// Load reads configuration from environment variables.
// SSOT: only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8091"),

		Provider: ProviderConfig{
			Token:     getEnv("METAQUOTE_TOKEN", ""),
			AccountID: getEnv("METAQUOTE_ACCOUNT_ID", ""),
			BaseURL:   getEnv("METAQUOTE_BASE_URL", "https://mt-client-api-v1.agiliumtrade.ai"),
		},

		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},

		State: StateConfig{
			Backend:  getEnv("STATE_BACKEND", BackendFile),
			FilePath: getEnv("STATE_FILE", "data/roi_state.json"),
			RedisKey: getEnv("STATE_REDIS_KEY", "roitrack:state"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},

		Report: ReportConfig{
			Timezone: getEnv("TZ_NAME", "Asia/Ho_Chi_Minh"),
			Header:   getEnv("REPORT_HEADER", "💵 TRADE GOODS"),
			Strategy: getEnv("ROI_STRATEGY", StrategySnapshot),
			Schedule: getEnv("REPORT_SCHEDULE", "0 0 * * * *"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	// Provider credentials are the only mandatory settings; without them
	// there is no account to report on.
	if c.Provider.Token == "" {
		return fmt.Errorf("METAQUOTE_TOKEN is required")
	}
	if c.Provider.AccountID == "" {
		return fmt.Errorf("METAQUOTE_ACCOUNT_ID is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Report.Strategy {
	case StrategySnapshot, StrategyGains:
	default:
		return fmt.Errorf("ROI_STRATEGY must be %q or %q", StrategySnapshot, StrategyGains)
	}

	switch c.State.Backend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("STATE_BACKEND must be %q or %q", BackendFile, BackendRedis)
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
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
