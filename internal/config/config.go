// Package config loads runtime settings from the environment and holds the
// domain constants shared across the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Notification dispatch modes.
const (
	NotifyInline = "inline"
	NotifyQueue  = "queue"
)

// Config holds everything the process entry points need to build their
// dependencies. Values come from the environment (optionally a .env file).
type Config struct {
	AppName  string
	HTTPAddr string
	AppURL   string

	// Database
	DBDriver string // "pgx" (default) or "pq"
	DSN      string

	// Redis; empty RedisAddr disables the queue and the live relay.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Auth
	JWTSecret []byte
	TokenTTL  time.Duration

	// Email
	EmailTransport  string // "smtp", "sendgrid" or "log"
	EmailHost       string
	EmailPort       int
	EmailSecure     bool
	EmailUser       string
	EmailPass       string
	EmailFrom       string
	SendGridAPIKey  string
	SendGridSandbox bool

	NotifyMode  string
	CORSOrigins []string
}

// Load reads the configuration from the environment. It fails only on values
// that are present but malformed, or on a missing JWT secret.
func Load() (*Config, error) {
	cfg := &Config{
		AppName:        getEnv("APP_NAME", "facilitydesk"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		AppURL:         strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		DBDriver:       getEnv("DB_DRIVER", "pgx"),
		DSN:            os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      []byte(os.Getenv("JWT_SECRET")),
		EmailTransport: getEnv("EMAIL_TRANSPORT", "log"),
		EmailHost:      os.Getenv("EMAIL_HOST"),
		EmailUser:      os.Getenv("EMAIL_USER"),
		EmailPass:      os.Getenv("EMAIL_PASS"),
		EmailFrom:      os.Getenv("EMAIL_FROM"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		NotifyMode:     getEnv("NOTIFY_MODE", NotifyInline),
	}

	if cfg.DSN == "" {
		cfg.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "user"),
			getEnv("DB_PASSWORD", "password"),
			getEnv("DB_NAME", "facilitydesk"),
			getEnv("DB_PORT", "5432"),
		)
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.EmailPort, err = getInt("EMAIL_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.EmailSecure, err = getBool("EMAIL_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.SendGridSandbox, err = getBool("SENDGRID_SANDBOX", false); err != nil {
		return nil, err
	}

	cfg.TokenTTL = DefaultTokenTTL
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if cfg.TokenTTL, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", raw, err)
		}
	}

	switch cfg.NotifyMode {
	case NotifyInline, NotifyQueue:
	default:
		return nil, fmt.Errorf("invalid NOTIFY_MODE %q", cfg.NotifyMode)
	}
	if cfg.NotifyMode == NotifyQueue && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("NOTIFY_MODE=queue requires REDIS_ADDR")
	}

	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
