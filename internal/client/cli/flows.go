package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/client/tokenflow"
	"github.com/dmitrijs2005/gophnotes/internal/client/view"
)

// redeem runs the verify-email and magic-link flows, which redeem their token
// as soon as the page opens.
func (a *App) redeem(ctx context.Context, kind tokenflow.Kind, token string) {
	if token == "" {
		a.show(ctx, view.NotFoundPage())
		return
	}

	flow := tokenflow.New(kind, token)
	a.flow = flow

	err := flow.Redeem(ctx,
		func() { a.show(ctx, view.LoadingPage(kind.LoadingText())) },
		func(ctx context.Context, token string) error {
			switch kind {
			case tokenflow.VerifyEmail:
				return a.auth.VerifyEmail(ctx, token)
			case tokenflow.MagicLink:
				u, err := a.auth.VerifyMagicLink(ctx, token)
				if err != nil {
					return err
				}
				a.state = a.state.WithUser(u)
				return nil
			}
			return errors.New("unsupported flow " + string(kind))
		},
	)
	if err != nil {
		a.logger.Info(ctx, "token redemption failed", "flow", kind, "error", err)
		a.show(ctx, view.FailurePage(kind.FailureHeading(), userMessage(err, kind.FallbackMessage())))
		return
	}

	a.logger.Info(ctx, "token redeemed", "flow", kind)
	switch kind {
	case tokenflow.VerifyEmail:
		a.checkAuth(ctx)
		a.show(ctx, view.EmailVerifiedPage())
	case tokenflow.MagicLink:
		a.Navigate(ctx, "#app")
	}
}

// openReset shows the new-password form. The token is redeemed only when the
// form is submitted.
func (a *App) openReset(ctx context.Context, token string) {
	if token == "" {
		a.show(ctx, view.NotFoundPage())
		return
	}
	a.flow = tokenflow.New(tokenflow.ResetPassword, token)
	a.show(ctx, view.ResetPasswordPage(token))
}
