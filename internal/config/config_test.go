package config_test

import (
	"testing"
	"time"

	"facilitydesk/backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("APP_URL", "https://fm.example.com/")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "https://fm.example.com", cfg.AppURL, "trailing slash is trimmed")
	assert.Equal(t, config.NotifyInline, cfg.NotifyMode)
	assert.Equal(t, config.DefaultTokenTTL, cfg.TokenTTL)
	assert.Contains(t, cfg.DSN, "dbname=facilitydesk")
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_EmailSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("EMAIL_PORT", "465")
	t.Setenv("EMAIL_SECURE", "true")
	t.Setenv("TOKEN_TTL", "2h")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 465, cfg.EmailPort)
	assert.True(t, cfg.EmailSecure)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad port", "EMAIL_PORT", "smtp"},
		{"bad secure flag", "EMAIL_SECURE", "maybe"},
		{"bad notify mode", "NOTIFY_MODE", "carrier-pigeon"},
		{"bad ttl", "TOKEN_TTL", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(tt.key, tt.val)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_QueueModeNeedsRedis(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("NOTIFY_MODE", config.NotifyQueue)
	t.Setenv("REDIS_ADDR", "")

	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.NotifyQueue, cfg.NotifyMode)
}
