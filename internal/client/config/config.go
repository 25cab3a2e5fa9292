package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/timex"
)

const (
	OutputText = "text"
	OutputHTML = "html"
)

// Config holds runtime settings for the notes client.
type Config struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	MailboxURL     string         `json:"mailbox_url"`
	MailboxWait    timex.Duration `json:"mailbox_wait"`
	Output         string         `json:"output"`
	LogLevel       string         `json:"log_level"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = timex.Duration{Duration: 30 * time.Second}
	c.MailboxURL = "http://127.0.0.1:8025"
	c.MailboxWait = timex.Duration{Duration: 30 * time.Second}
	c.Output = OutputText
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server url is required")
	}
	if c.Output != OutputText && c.Output != OutputHTML {
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	if c.RequestTimeout.Duration <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}

// LoadConfig constructs a Config from defaults, then overlays JSON (if
// requested), the environment and finally command-line flags. args are the
// program arguments without the program name.
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
