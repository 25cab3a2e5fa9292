// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/timex"
)

// Email providers.
const (
	ProviderConsole  = "console"
	ProviderMemory   = "memory"
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
)

// Config holds runtime settings for the notes server.
//
// Fields:
//   - Address: HTTP bind address.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Do not use the
//     development default in production.
//   - BaseURL: public URL of the client, used to build emailed links.
//   - SessionTTL: lifetime of a session cookie.
//   - VerifyTTL / MagicLinkTTL / ResetTTL: lifetimes of emailed tokens.
//   - EmailProvider: console, memory, smtp or sendgrid.
//   - RateLimitPerMinute: emails accepted per address and minute.
//   - SecureCookies: mark cookies Secure (HTTPS deployments).
type Config struct {
	Address            string         `json:"address"`
	SecretKey          string         `json:"secret_key"`
	BaseURL            string         `json:"base_url"`
	SessionTTL         timex.Duration `json:"session_ttl"`
	VerifyTTL          timex.Duration `json:"verify_ttl"`
	MagicLinkTTL       timex.Duration `json:"magic_link_ttl"`
	ResetTTL           timex.Duration `json:"reset_ttl"`
	EmailProvider      string         `json:"email_provider"`
	EmailFrom          string         `json:"email_from"`
	SMTPAddr           string         `json:"smtp_addr"`
	SendGridAPIKey     string         `json:"sendgrid_api_key"`
	RateLimitPerMinute int            `json:"rate_limit_per_minute"`
	SecureCookies      bool           `json:"secure_cookies"`
	AllowedOrigins     []string       `json:"allowed_origins"`
	LogLevel           string         `json:"log_level"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Address = ":8080"
	c.SecretKey = "secretKey"
	c.BaseURL = "http://localhost:8080"
	c.SessionTTL = timex.Duration{Duration: 7 * 24 * time.Hour}
	c.VerifyTTL = timex.Duration{Duration: 24 * time.Hour}
	c.MagicLinkTTL = timex.Duration{Duration: 15 * time.Minute}
	c.ResetTTL = timex.Duration{Duration: time.Hour}
	c.EmailProvider = ProviderConsole
	c.EmailFrom = "Notes <noreply@notes.local>"
	c.SMTPAddr = "127.0.0.1:1025"
	c.RateLimitPerMinute = 5
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	switch c.EmailProvider {
	case ProviderConsole, ProviderMemory, ProviderSMTP:
	case ProviderSendGrid:
		if c.SendGridAPIKey == "" {
			errs = append(errs, errors.New("sendgrid provider needs an API key"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown email provider %q", c.EmailProvider))
	}
	if c.RateLimitPerMinute <= 0 {
		errs = append(errs, errors.New("rate limit must be positive"))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
