package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/router"
	"github.com/dmitrijs2005/gophnotes/internal/client/tokenflow"
	"github.com/dmitrijs2005/gophnotes/internal/client/view"
)

// Navigate opens hash. Guard redirects are followed before anything is
// rendered; token routes start a new redemption flow.
func (a *App) Navigate(ctx context.Context, hash string) {
	start := time.Now()
	loc := router.ParseHash(hash)

	for hops := 0; ; hops++ {
		target, redirect := router.Guard(loc.Route, a.state.Authenticated())
		if !redirect {
			break
		}
		if hops == maxRedirects {
			a.logger.Error(ctx, "navigation aborted", "hash", hash, "error", ErrRedirectLoop)
			return
		}
		a.logger.Debug(ctx, "route guarded", "from", loc.Route, "to", target)
		loc = router.Location{Route: target, Params: map[string]string{}}
	}

	a.loc = loc
	a.flow = nil

	switch loc.Route {
	case router.Home:
		a.show(ctx, view.HomePage())
	case router.Login:
		a.show(ctx, view.LoginPage(loc.Params["email"]))
	case router.Register:
		a.show(ctx, view.RegisterPage())
	case router.CheckEmail:
		a.show(ctx, view.CheckEmailPage(loc.Params))
	case router.VerifyEmail:
		a.redeem(ctx, tokenflow.VerifyEmail, loc.Params["token"])
	case router.MagicLink:
		a.redeem(ctx, tokenflow.MagicLink, loc.Params["token"])
	case router.ForgotPassword:
		a.show(ctx, view.ForgotPasswordPage())
	case router.ResetPassword:
		a.openReset(ctx, loc.Params["token"])
	case router.App:
		a.openNotes(ctx)
	default:
		a.show(ctx, view.NotFoundPage())
	}

	a.logger.Debug(ctx, "navigated", "hash", loc.Hash(), "took", a.since(start))
}

func (a *App) show(ctx context.Context, p view.Page) {
	a.page = p
	a.render(ctx)
}

// openNotes loads the notes list. A failed load keeps whatever is cached.
func (a *App) openNotes(ctx context.Context) {
	notes, err := a.notes.List(ctx)
	if err != nil {
		a.toastErr(ctx, err, "Unable to load notes.")
	} else {
		a.state = a.state.WithNotes(notes)
	}
	a.show(ctx, view.NotesPage(a.state))
}
