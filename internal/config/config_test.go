package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("UPSTREAM_ACCESS_KEY_ID", "key-id")
	t.Setenv("UPSTREAM_SIGNATURE_KEY", "topsecret")
	t.Setenv("DATABASE_DSN", "postgres://localhost/dashboard")
	t.Setenv("REDIS_PASSWORD", "redis-pass")
	t.Setenv("RABBITMQ_DSN", "amqp://localhost")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("DASHBOARD_PASSWORD_HASH", "$2a$10$hash")
	t.Setenv("EMAIL_OPERATOR", "ops@example.com")
	t.Setenv("EMAIL_SMTP_USERNAME", "mailer@example.com")
	t.Setenv("EMAIL_SMTP_PASSWORD", "smtp-pass")
	t.Setenv("EMAIL_SMTP_HOST", "smtp.example.com")
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults apply when only required vars are set", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, "3000", cfg.Server.Port)
		assert.Equal(t, "https://api.shiftboard.com/api/api.cgi", cfg.Upstream.URL)
		assert.Equal(t, 300, cfg.Redis.ShiftsTTL)
		assert.Equal(t, 3600, cfg.Redis.AccountsTTL)
		assert.Equal(t, 86400, cfg.JWT.Expiration)
		assert.Equal(t, 465, cfg.Email.SMTP.Port)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("REDIS_SHIFTS_TTL", "60")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 60, cfg.Redis.ShiftsTTL)
	})

	t.Run("missing required var is an error", func(t *testing.T) {
		setRequiredEnv(t)
		// t.Setenv registers the restore; unset to simulate a missing var.
		t.Setenv("UPSTREAM_ACCESS_KEY_ID", "placeholder")
		require.NoError(t, os.Unsetenv("UPSTREAM_ACCESS_KEY_ID"))

		_, err := LoadConfig()
		require.Error(t, err)
	})
}
