// Package config reads settings from the environment, optionally seeded by a
// .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"stockstalk/internal/logger"
)

// Market data provider names accepted by MARKET_DATA_PROVIDER.
const (
	ProviderYahoo     = "yahoo"
	ProviderFinanceGo = "financego"
)

type Config struct {
	// Server
	Env                string
	Port               string
	LogLevel           string
	CORSAllowedOrigins []string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Market data
	MarketDataProvider string
	YahooBaseURL       string
	RequestTimeout     time.Duration
	HistoryDays        int
}

var appConfig *Config

// Load builds a Config from the environment. Values already set in the
// environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Get().Warnw("ignoring unreadable .env", "error", err)
	}

	config := &Config{
		// Server
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "")),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		// Database
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "stockstalk"),
		DBPassword: getEnv("DB_PASSWORD", "stockstalk"),
		DBName:     getEnv("DB_NAME", "stockstalk"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "stockstalk.db"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Market data
		MarketDataProvider: strings.ToLower(getEnv("MARKET_DATA_PROVIDER", ProviderYahoo)),
		YahooBaseURL:       getEnv("YAHOO_BASE_URL", ""),
	}

	switch config.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: must be postgres or sqlite", config.DBDriver)
	}

	switch config.MarketDataProvider {
	case ProviderYahoo, ProviderFinanceGo:
	default:
		return nil, fmt.Errorf("invalid MARKET_DATA_PROVIDER %q: must be %s or %s",
			config.MarketDataProvider, ProviderYahoo, ProviderFinanceGo)
	}

	switch config.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: must be debug, info, warn, or error", config.LogLevel)
	}

	expiry, err := parseDuration("JWT_EXPIRES_IN", os.Getenv("JWT_EXPIRES_IN"), 24*time.Hour)
	if err != nil {
		return nil, err
	}
	config.JWTExpirationDur = expiry

	timeout, err := parseDuration("REQUEST_TIMEOUT", os.Getenv("REQUEST_TIMEOUT"), 30*time.Second)
	if err != nil {
		return nil, err
	}
	config.RequestTimeout = timeout

	// Thirty calendar days hold about 21 trading rows, below the 30 a
	// prediction needs. Use 45 or more to predict from refreshed history.
	days, err := parsePositiveInt("HISTORY_DAYS", os.Getenv("HISTORY_DAYS"), 30)
	if err != nil {
		return nil, err
	}
	config.HistoryDays = days

	appConfig = config
	return config, nil
}

// Get returns the last loaded Config, loading it on first use.
func Get() *Config {
	if appConfig == nil {
		cfg, err := Load()
		if err != nil {
			logger.Get().Fatalw("configuration invalid", "error", err)
		}
		appConfig = cfg
	}
	return appConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key, s string, defaultVal time.Duration) (time.Duration, error) {
	if s == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

func parsePositiveInt(key, s string, defaultVal int) (int, error) {
	if s == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
