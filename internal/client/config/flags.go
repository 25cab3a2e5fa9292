package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Only flags known here are considered (see flagx.FilterArgs), so a
// JSON -c flag or a start route like "#login" passes through untouched.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-m", "-w", "-o", "-l"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the notes backend")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.MailboxURL, "m", cfg.MailboxURL, "base URL of the Mailpit API")
	wait := fs.Int("w", int(cfg.MailboxWait.Seconds()), "mailbox wait timeout (in seconds)")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "output format: text or html")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Second-granularity flags only replace durations that were given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout.Duration = time.Duration(*timeout) * time.Second
		case "w":
			cfg.MailboxWait.Duration = time.Duration(*wait) * time.Second
		}
	})
	return nil
}

// StartHash returns the first positional argument that looks like a route
// ("#login", "#reset-password?token=..."), or "" when there is none.
func StartHash(args []string) string {
	for _, a := range args {
		if len(a) > 0 && a[0] == '#' {
			return a
		}
	}
	return ""
}
