package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	BaseURL      string // Externally reachable URL prefix for activation links
	DatabaseFile string // Path to SQLite database file (default: ./secretapp.db)

	Notifier    string        // Notification transport: "smtp" or "log" (default: log)
	SMTPAddr    string        // host:port of the SMTP server (required for smtp)
	SMTPFrom    string        // Sender address for activation mails
	SMTPUser    string        // Optional SMTP username (enables auth)
	SMTPPass    string        // Optional SMTP password
	SMTPTimeout time.Duration // Bound on a single delivery attempt (default: 10s)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		BaseURL:             os.Getenv("SECRETAPP_BASE_URL"),
		DatabaseFile:        getEnvOrDefault("SECRETAPP_DATABASE_FILE", "secretapp.db"),
		Notifier:            getEnvOrDefault("SECRETAPP_NOTIFIER", "log"),
		SMTPAddr:            os.Getenv("SECRETAPP_SMTP_ADDR"),
		SMTPFrom:            getEnvOrDefault("SECRETAPP_SMTP_FROM", "secretapp@gerneth.info"),
		SMTPUser:            os.Getenv("SECRETAPP_SMTP_USER"),
		SMTPPass:            os.Getenv("SECRETAPP_SMTP_PASS"),
		SMTPTimeout:         getEnvDurationOrDefault("SECRETAPP_SMTP_TIMEOUT", 10*time.Second),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.BaseURL == "" {
		// Activation links need some prefix; localhost is only right for dev.
		cfg.BaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
