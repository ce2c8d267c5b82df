package app

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(env.Options{Environment: map[string]string{"AUTH_JWT_SECRET": "s3cret"}})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, MailProviderLog, cfg.Mail.Provider)
	assert.Equal(t, "losaltoshacks.com", cfg.Auth.Domain)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "https://api.sendgrid.com", cfg.SendGrid.BaseURL)
	assert.False(t, cfg.Otel.Enabled)
	assert.Empty(t, cfg.CORS.Origins)
}

func TestParseConfigNestedPrefixes(t *testing.T) {
	cfg, err := parseConfig(env.Options{Environment: map[string]string{
		"PORT":                       "9000",
		"DATABASE_DSN":               "sqlite:/tmp/reg.db",
		"AUTH_JWT_SECRET":            "s3cret",
		"AUTH_TOKEN_TTL":             "2h",
		"WAIVER_USERNAME":            "ds",
		"WAIVER_PASSWORD":            "pw",
		"MAIL_PROVIDER":              " SendGrid ",
		"MAIL_CONFIRMATION_REDIRECT": "https://losaltoshacks.com/confirmed",
		"SENDGRID_API_KEY":           "key",
		"SES_REGION":                 "us-east-1",
		"CORS_ORIGINS":               "https://a.example,https://b.example",
		"OTEL_ENABLED":               "true",
	}})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, "sqlite:/tmp/reg.db", cfg.Database.DSN)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "ds", cfg.Waiver.Username)
	assert.Equal(t, "pw", cfg.Waiver.Password)
	assert.Equal(t, MailProviderSendGrid, cfg.Mail.Provider)
	assert.Equal(t, "https://losaltoshacks.com/confirmed", cfg.Mail.ConfirmationRedirect)
	assert.Equal(t, "key", cfg.SendGrid.APIKey)
	assert.Equal(t, "us-east-1", cfg.SES.Region)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
	assert.True(t, cfg.Otel.Enabled)
}

func TestParseConfigRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown provider": {"AUTH_JWT_SECRET": "s3cret", "MAIL_PROVIDER": "carrier-pigeon"},
		"missing secret":   {},
		"empty secret":     {"AUTH_JWT_SECRET": " "},
		"bad duration":     {"AUTH_JWT_SECRET": "s3cret", "AUTH_TOKEN_TTL": "soon"},
	}
	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfig(env.Options{Environment: environ})
			require.Error(t, err)
		})
	}
}

func TestParseConfigRequiresSecret(t *testing.T) {
	_, err := parseConfig(env.Options{Environment: map[string]string{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET is required")
}

func TestParseConfigSecretOptionalWhenAuthDisabled(t *testing.T) {
	_, err := parseConfig(env.Options{Environment: map[string]string{
		"AUTH_JWT_SECRET": "",
		"AUTH_DISABLED":   "true",
	}})
	require.NoError(t, err)
}
