package config

import (
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/envx"
)

const envPrefix = "GOPHNOTES_"

func parseEnv(cfg *Config) error {
	if err := envx.Load(); err != nil {
		return err
	}

	cfg.Address = envx.String(envPrefix+"ADDRESS", cfg.Address)
	cfg.SecretKey = envx.String(envPrefix+"SECRET_KEY", cfg.SecretKey)
	cfg.BaseURL = envx.String(envPrefix+"BASE_URL", cfg.BaseURL)
	cfg.SessionTTL.Duration = envx.Duration(envPrefix+"SESSION_TTL", cfg.SessionTTL.Duration)
	cfg.VerifyTTL.Duration = envx.Duration(envPrefix+"VERIFY_TTL", cfg.VerifyTTL.Duration)
	cfg.MagicLinkTTL.Duration = envx.Duration(envPrefix+"MAGIC_LINK_TTL", cfg.MagicLinkTTL.Duration)
	cfg.ResetTTL.Duration = envx.Duration(envPrefix+"RESET_TTL", cfg.ResetTTL.Duration)
	cfg.EmailProvider = envx.String(envPrefix+"EMAIL_PROVIDER", cfg.EmailProvider)
	cfg.EmailFrom = envx.String(envPrefix+"EMAIL_FROM", cfg.EmailFrom)
	cfg.SMTPAddr = envx.String(envPrefix+"SMTP_ADDR", cfg.SMTPAddr)
	cfg.SendGridAPIKey = envx.String("SENDGRID_API_KEY", cfg.SendGridAPIKey)
	cfg.SendGridAPIKey = envx.String(envPrefix+"SENDGRID_API_KEY", cfg.SendGridAPIKey)
	cfg.RateLimitPerMinute = envx.Int(envPrefix+"RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.SecureCookies = envx.Bool(envPrefix+"SECURE_COOKIES", cfg.SecureCookies)
	cfg.LogLevel = envx.String(envPrefix+"LOG_LEVEL", cfg.LogLevel)
	if origins := envx.String(envPrefix+"ALLOWED_ORIGINS", ""); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}
	return nil
}
