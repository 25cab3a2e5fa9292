package mail

import (
	"context"
	"fmt"
	netmail "net/mail"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer delivers through the SendGrid v3 API.
type SendGridMailer struct {
	client sendGridClient
	from   netmail.Address
}

func NewSendGridMailer(apiKey string, from netmail.Address) *SendGridMailer {
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey), from: from}
}

func (m *SendGridMailer) Send(ctx context.Context, e Email) error {
	from := sgmail.NewEmail(m.from.Name, m.from.Address)
	to := sgmail.NewEmail("", e.To)
	message := sgmail.NewSingleEmail(from, e.Subject, to, e.Text, e.HTML)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", e.To, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send to %s: status %d: %s", e.To, resp.StatusCode, resp.Body)
	}
	return nil
}
