package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/mailbox"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// Client routes the emailed links point at.
const (
	RouteVerifyEmail   = "verify-email"
	RouteMagicLink     = "magic-link"
	RouteResetPassword = "reset-password"
)

type emailKind struct {
	route   string
	subject string
	intro   string
	action  string
}

var kinds = map[models.TokenPurpose]emailKind{
	models.PurposeVerifyEmail: {
		route:   RouteVerifyEmail,
		subject: mailbox.SubjectVerifyEmail,
		intro:   "Confirm your email address to finish setting up your notes account.",
		action:  "Verify email",
	},
	models.PurposeMagicLink: {
		route:   RouteMagicLink,
		subject: mailbox.SubjectMagicLink,
		intro:   "Use the link below to sign in. No password needed.",
		action:  "Sign in",
	},
	models.PurposeResetPassword: {
		route:   RouteResetPassword,
		subject: mailbox.SubjectResetPassword,
		intro:   "Someone asked to reset the password of your notes account. If it was not you, ignore this email.",
		action:  "Choose a new password",
	},
}

var htmlTemplate = template.Must(template.New("email").Parse(`<!doctype html>
<html><body>
<p>Hi {{.Name}},</p>
<p>{{.Intro}}</p>
<p><a href="{{.Link}}">{{.Action}}</a></p>
<p>This link expires in {{.Expires}}.</p>
</body></html>
`))

// Composer renders token emails with links rooted at BaseURL.
type Composer struct {
	BaseURL string
}

// Link returns <BaseURL>/#<route>?token=<token>.
func (c Composer) Link(route, token string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/#" + route + "?token=" + token
}

func (c Composer) Compose(purpose models.TokenPurpose, to, name, token string, ttl time.Duration) (Email, error) {
	k, ok := kinds[purpose]
	if !ok {
		return Email{}, fmt.Errorf("no email for token purpose %q", purpose)
	}
	if name == "" {
		name = "there"
	}

	link := c.Link(k.route, token)
	expires := humanDuration(ttl)

	data := struct {
		Name, Intro, Link, Action, Expires string
	}{name, k.intro, link, k.action, expires}

	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return Email{}, fmt.Errorf("render email: %w", err)
	}

	text := fmt.Sprintf("Hi %s,\n\n%s\n\n%s: %s\n\nThis link expires in %s.\n",
		name, k.intro, k.action, link, expires)

	return Email{To: to, Subject: k.subject, Text: text, HTML: html.String()}, nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return plural(int(d/(24*time.Hour)), "day")
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	}
	return d.String()
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
