package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/losaltoshacks/registration-backend/internal/data/db"
	"github.com/losaltoshacks/registration-backend/internal/observability"
	"github.com/losaltoshacks/registration-backend/internal/platform/sendgrid"
	"github.com/losaltoshacks/registration-backend/internal/platform/ses"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

const (
	MailProviderLog      = "log"
	MailProviderSendGrid = "sendgrid"
	MailProviderSES      = "ses"
)

type Config struct {
	Port     string                   `env:"PORT" envDefault:"8080"`
	Log      LogConfig                `envPrefix:"LOG_"`
	Database db.Config                `envPrefix:"DATABASE_"`
	Auth     AuthConfig               `envPrefix:"AUTH_"`
	Waiver   WaiverConfig             `envPrefix:"WAIVER_"`
	Mail     MailConfig               `envPrefix:"MAIL_"`
	SendGrid sendgrid.Config          `envPrefix:"SENDGRID_"`
	SES      ses.Config               `envPrefix:"SES_"`
	Otel     observability.OtelConfig `envPrefix:"OTEL_"`
	CORS     CORSConfig               `envPrefix:"CORS_"`
	// MetricsNamespace prefixes every Prometheus series.
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"registration"`
}

type LogConfig struct {
	Mode     string `env:"MODE" envDefault:"development"`
	Level    string `env:"LEVEL" envDefault:"info"`
	Redact   bool   `env:"REDACT" envDefault:"true"`
	HashSalt string `env:"HASH_SALT"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	Domain    string        `env:"DOMAIN" envDefault:"losaltoshacks.com"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	Disabled  bool          `env:"DISABLED" envDefault:"false"`
}

// WaiverConfig holds the Basic credentials DocuSign presents on callbacks.
// Password may be a bcrypt hash.
type WaiverConfig struct {
	Username string `env:"USERNAME" envDefault:"docusign"`
	Password string `env:"PASSWORD"`
}

type MailConfig struct {
	Provider             string `env:"PROVIDER" envDefault:"log"`
	APIEndpoint          string `env:"API_ENDPOINT" envDefault:"http://localhost:8080"`
	ConfirmationRedirect string `env:"CONFIRMATION_REDIRECT"`
}

type CORSConfig struct {
	Origins []string `env:"ORIGINS" envSeparator:","`
}

// LoadConfig parses the process environment.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Mail.Provider = strings.ToLower(strings.TrimSpace(c.Mail.Provider))
	switch c.Mail.Provider {
	case MailProviderLog, MailProviderSendGrid, MailProviderSES:
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.Mail.Provider)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" && !c.Auth.Disabled {
		return fmt.Errorf("AUTH_JWT_SECRET is required unless AUTH_DISABLED is set")
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = services.DefaultTokenTTL
	}
	if strings.TrimSpace(c.Port) == "" {
		c.Port = "8080"
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
