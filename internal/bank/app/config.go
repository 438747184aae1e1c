package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret string // Required: signing secret for access tokens (min 32 bytes)
	Issuer    string // Optional: issuer claim for tokens (default: eagle-bank)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./bank.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	StoreTimeout         time.Duration // Per-operation persistence deadline (default: 5s)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	SecureCookies        bool          // Mark session cookies Secure (default: true outside dev)
}

func LoadConfig() Config {
	cfg := Config{
		JWTSecret:            os.Getenv("BANK_JWT_SECRET"),
		Issuer:               getEnvOrDefault("BANK_ISSUER", "eagle-bank"),
		DatabaseFile:         getEnvOrDefault("BANK_DATABASE_FILE", "bank.db"),
		PepperFile:           getEnvOrDefault("BANK_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		StoreTimeout:         getEnvDurationOrDefault("BANK_STORE_TIMEOUT", 5*time.Second),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	// Plain-HTTP cookies only work without the Secure flag, so dev opts out
	cfg.SecureCookies = cfg.Env != "dev"
	if v := os.Getenv("BANK_SECURE_COOKIES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SecureCookies = b
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Accept duration strings ("1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are taken as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
