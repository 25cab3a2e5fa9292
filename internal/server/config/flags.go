package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-s string   JWT HMAC secret key
//	-b string   public base URL used in emailed links
//	-e string   email provider: console, memory, smtp, sendgrid
//	-p string   SMTP server address (smtp provider)
//	-k string   SendGrid API key (sendgrid provider)
//	-f string   sender address
//	-r int      emails per address and minute
//	-l string   log level
//	-secure     mark cookies Secure
//
// Only the flags above are considered, see flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args,
		[]string{"-a", "-s", "-b", "-e", "-p", "-k", "-f", "-r", "-l"},
		"-secure", "--secure")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Address, "a", cfg.Address, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.BaseURL, "b", cfg.BaseURL, "public base URL")
	fs.StringVar(&cfg.EmailProvider, "e", cfg.EmailProvider, "email provider")
	fs.StringVar(&cfg.SMTPAddr, "p", cfg.SMTPAddr, "SMTP server address")
	fs.StringVar(&cfg.SendGridAPIKey, "k", cfg.SendGridAPIKey, "SendGrid API key")
	fs.StringVar(&cfg.EmailFrom, "f", cfg.EmailFrom, "sender address")
	fs.IntVar(&cfg.RateLimitPerMinute, "r", cfg.RateLimitPerMinute, "emails per address and minute")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.SecureCookies, "secure", cfg.SecureCookies, "secure cookies")

	return fs.Parse(args)
}
