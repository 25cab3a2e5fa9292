// Package mail composes and delivers the emails carrying verification,
// magic-link and password-reset tokens.
package mail

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
)

// Email is a rendered message ready for delivery.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

var ErrUnknownProvider = errors.New("unknown email provider")

// New builds the mailer selected by cfg.EmailProvider. The memory mailer is
// returned a second time so callers can expose its inbox.
func New(cfg *config.Config, logger logging.Logger) (Mailer, *MemoryMailer, error) {
	from, err := netmail.ParseAddress(cfg.EmailFrom)
	if err != nil {
		return nil, nil, fmt.Errorf("parse from address %q: %w", cfg.EmailFrom, err)
	}

	switch cfg.EmailProvider {
	case config.ProviderConsole:
		return NewConsoleMailer(logger), nil, nil
	case config.ProviderMemory:
		m := NewMemoryMailer(*from)
		return m, m, nil
	case config.ProviderSMTP:
		return NewSMTPMailer(cfg.SMTPAddr, *from), nil, nil
	case config.ProviderSendGrid:
		return NewSendGridMailer(cfg.SendGridAPIKey, *from), nil, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.EmailProvider)
}
