package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/router"
	"github.com/dmitrijs2005/gophnotes/internal/mailbox"
)

var inboxSubjects = map[router.Route]string{
	router.VerifyEmail:   mailbox.SubjectVerifyEmail,
	router.MagicLink:     mailbox.SubjectMagicLink,
	router.ResetPassword: mailbox.SubjectResetPassword,
}

func (a *App) status() string {
	s := a.loc.Hash()
	if u := a.state.User; u != nil {
		s = u.Email + " " + s
	}
	return "(" + s + ")"
}

func (a *App) editing() (string, string, bool) {
	n, ok := a.state.FindNote(a.state.EditingID)
	if !ok || !a.state.Editing() {
		return "", "", false
	}
	return n.Title, n.Body, true
}

func (a *App) interactiveInput() bool {
	return a.interactive
}

// followInbox waits for the latest email to addr carrying a link to route and
// opens that link.
func (a *App) followInbox(ctx context.Context, addr, route string) error {
	if a.mailbox == nil {
		return fmt.Errorf("no mailbox configured")
	}
	r := router.Route(route)
	subject, ok := inboxSubjects[r]
	if !ok {
		return fmt.Errorf("no emailed links for route %q", route)
	}

	msg, err := a.mailbox.WaitFor(ctx, mailbox.Filter{To: addr, Subject: subject})
	if err != nil {
		return err
	}
	token, err := mailbox.ExtractToken(msg, route)
	if err != nil {
		return err
	}

	a.logger.Info(ctx, "following emailed link", "route", route, "message", msg.ID)
	a.Navigate(ctx, router.Link(r, map[string]string{"token": token}))
	return nil
}

func (a *App) changePassword(ctx context.Context, current, next []byte) error {
	if err := a.auth.ChangePassword(ctx, current, next); err != nil {
		a.toastErr(ctx, err, "Unable to change password.")
	} else {
		a.toast("Password changed.")
	}
	a.redraw(ctx)
	return nil
}
