package config

import (
	"github.com/dmitrijs2005/gophnotes/internal/envx"
)

const envPrefix = "GOPHNOTES_"

func parseEnv(cfg *Config) error {
	if err := envx.Load(); err != nil {
		return err
	}

	cfg.ServerURL = envx.String(envPrefix+"SERVER_URL", cfg.ServerURL)
	cfg.RequestTimeout.Duration = envx.Duration(envPrefix+"REQUEST_TIMEOUT", cfg.RequestTimeout.Duration)
	cfg.MailboxURL = envx.String(envPrefix+"MAILBOX_URL", cfg.MailboxURL)
	cfg.MailboxWait.Duration = envx.Duration(envPrefix+"MAILBOX_WAIT", cfg.MailboxWait.Duration)
	cfg.Output = envx.String(envPrefix+"OUTPUT", cfg.Output)
	cfg.LogLevel = envx.String(envPrefix+"LOG_LEVEL", cfg.LogLevel)
	return nil
}
