package mail

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

// ConsoleMailer writes emails to the log instead of sending them.
type ConsoleMailer struct {
	logger logging.Logger
}

func NewConsoleMailer(logger logging.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger.With("module", "mail")}
}

func (m *ConsoleMailer) Send(ctx context.Context, e Email) error {
	m.logger.Info(ctx, "email", "to", e.To, "subject", e.Subject, "text", e.Text)
	return nil
}
