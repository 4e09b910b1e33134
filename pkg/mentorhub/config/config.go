package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server reads from the environment. Fields here
// are server-side only; clients see the allow-listed projection from Public().
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	BaseURL      string `env:"MENTORHUB_BASE_URL" envDefault:"http://localhost:8080"`
	DatabasePath string `env:"MENTORHUB_DB_PATH" envDefault:"mentorhub.db"`
	JWTSecret    string `env:"JWT_SECRET"`
	AdminEmail   string `env:"MENTORHUB_ADMIN_EMAIL"`
	SentryDSN    string `env:"SENTRY_DSN"`

	SignupsEnabled bool `env:"MENTORHUB_SIGNUPS_ENABLED" envDefault:"true"`

	Mail    MailConfig    `envPrefix:"SENDGRID_"`
	Meeting MeetingConfig `envPrefix:"TM_"`
}

// MailConfig configures the transactional email provider.
type MailConfig struct {
	APIKey     string `env:"API_KEY"`
	TemplateID string `env:"TEMPLATE_ID"`
	FromEmail  string `env:"FROM_EMAIL" envDefault:"noreply@mentorhub.local"`
	FromName   string `env:"FROM_NAME" envDefault:"MentorHub"`
}

// MeetingConfig configures the cloud meeting provider client.
type MeetingConfig struct {
	APIBaseURL  string `env:"API_BASE_URL" envDefault:"https://api.meeting.qq.com"`
	AppID       string `env:"ENTERPRISE_ID"`
	SdkID       string `env:"APP_ID"`
	SecretID    string `env:"SECRET_ID"`
	SecretKey   string `env:"SECRET_KEY"`
	AdminUserID string `env:"ADMIN_USER_ID"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Public is the fixed, non-secret configuration projection served to clients.
// Fields are added here explicitly; anything not listed is never exposed.
type Public struct {
	BaseURL           string `json:"baseUrl"`
	SignupsEnabled    bool   `json:"signupsEnabled"`
	MeetingConfigured bool   `json:"meetingConfigured"`
	EmailConfigured   bool   `json:"emailConfigured"`
}

// Public computes the client-visible projection. Presence booleans stand in
// for credentials so the frontend can tell which integrations are live
// without ever seeing a secret.
func (c *Config) Public() Public {
	return Public{
		BaseURL:           c.BaseURL,
		SignupsEnabled:    c.SignupsEnabled,
		MeetingConfigured: c.Meeting.SecretID != "" && c.Meeting.SecretKey != "",
		EmailConfigured:   c.Mail.APIKey != "",
	}
}
