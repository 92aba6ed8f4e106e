package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMailEnv(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_USER", "bot")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("SENDER_EMAIL", "owner@example.com")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
		assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
		assert.Equal(t, time.Hour, cfg.RateLimit.Window)
		assert.Equal(t, 10*time.Minute, cfg.RateLimit.SweepInterval)
		assert.Equal(t, 10*time.Second, cfg.Mail.Timeout)
		assert.False(t, cfg.Mail.Secure)
		assert.Equal(t, "Salwyn Christopher", cfg.Mail.OwnerName)
		assert.Empty(t, cfg.Redis.Addr)
	})

	t.Run("custom values", func(t *testing.T) {
		setMailEnv(t)
		t.Setenv("SMTP_SECURE", "true")
		t.Setenv("RATE_LIMIT_MAX", "3")
		t.Setenv("RATE_LIMIT_WINDOW", "30m")
		t.Setenv("ALLOWED_ORIGINS", "https://a.dev,https://b.dev")
		t.Setenv("ENV", "production")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.IsProduction())
		assert.True(t, cfg.Mail.Secure)
		assert.True(t, cfg.Mail.Configured())
		assert.Equal(t, "smtp.example.com:587", cfg.Mail.Addr())
		assert.Equal(t, 3, cfg.RateLimit.MaxRequests)
		assert.Equal(t, 30*time.Minute, cfg.RateLimit.Window)
		assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, cfg.AllowedOrigins)
	})

	t.Run("invalid limiter settings", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_MAX", "0")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unparseable bool", func(t *testing.T) {
		t.Setenv("SMTP_SECURE", "maybe")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestMailConfigMissingKeys(t *testing.T) {
	full := MailConfig{
		Host:     "smtp.example.com",
		Port:     "465",
		Username: "bot",
		Password: "secret",
		Sender:   "owner@example.com",
	}
	assert.Empty(t, full.MissingKeys())
	assert.True(t, full.Configured())

	assert.Equal(t,
		[]string{"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "SENDER_EMAIL"},
		MailConfig{}.MissingKeys())

	noPass := full
	noPass.Password = ""
	assert.Equal(t, []string{"SMTP_PASSWORD"}, noPass.MissingKeys())

	badPort := full
	badPort.Port = "smtp"
	assert.Equal(t, []string{"SMTP_PORT"}, badPort.MissingKeys())
	assert.False(t, badPort.Configured())
}
