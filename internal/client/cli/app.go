package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/config"
	"github.com/dmitrijs2005/gophnotes/internal/client/router"
	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/client/session"
	"github.com/dmitrijs2005/gophnotes/internal/client/tokenflow"
	"github.com/dmitrijs2005/gophnotes/internal/client/view"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/mailbox"
)

// maxRedirects bounds guard redirects for a single navigation.
const maxRedirects = 3

var ErrRedirectLoop = errors.New("too many redirects")

// Deps are the collaborators of an App. API and Renderer are required.
type Deps struct {
	API      client.Client
	Mailbox  *mailbox.Client
	Renderer view.Renderer
	In       io.Reader
	Out      io.Writer
	Logger   logging.Logger
}

type App struct {
	api         client.Client
	auth        services.AuthService
	notes       services.NoteService
	mailbox     *mailbox.Client
	renderer    view.Renderer
	reader      *bufio.Reader
	out         io.Writer
	logger      logging.Logger
	interactive bool

	state  session.State
	loc    router.Location
	page   view.Page
	flow   *tokenflow.Flow
	toasts []string
}

func New(d Deps) *App {
	a := &App{
		api:      d.API,
		auth:     services.NewAuthService(d.API),
		notes:    services.NewNoteService(d.API),
		mailbox:  d.Mailbox,
		renderer: d.Renderer,
		out:      d.Out,
		logger:   d.Logger,
		loc:      router.ParseHash(""),
	}
	if d.In == nil {
		d.In = os.Stdin
	}
	a.reader = bufio.NewReader(d.In)
	a.interactive = d.In == os.Stdin
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.logger == nil {
		a.logger = logging.Discard()
	}
	return a
}

// NewApp wires an App from configuration: an HTTP API client with a cookie
// session, the configured renderer and, when configured, a mailbox reader.
func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	api, err := client.NewHTTPClient(c.ServerURL, client.Options{
		Timeout: c.RequestTimeout.Duration,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	var r view.Renderer = view.TextRenderer{}
	if c.Output == config.OutputHTML {
		if r, err = view.NewHTMLRenderer(); err != nil {
			return nil, err
		}
	}

	var mb *mailbox.Client
	if c.MailboxURL != "" {
		mb = mailbox.New(c.MailboxURL, mailbox.Options{WaitTimeout: c.MailboxWait.Duration, Logger: logger})
	}

	return New(Deps{API: api, Mailbox: mb, Renderer: r, Logger: logger}), nil
}

// State returns the current session state.
func (a *App) State() session.State {
	return a.state
}

// Location returns where the app currently is.
func (a *App) Location() router.Location {
	return a.loc
}

// Page returns the page last rendered.
func (a *App) Page() view.Page {
	return a.page
}

// Start obtains the anti-forgery token, restores the session and opens
// startHash. Failures here are logged; the app stays usable.
func (a *App) Start(ctx context.Context, startHash string) {
	if err := a.api.Init(ctx); err != nil {
		a.logger.Warn(ctx, "continuing without csrf token", "error", err)
	}
	a.checkAuth(ctx)
	a.Navigate(ctx, startHash)
}

// Run starts the app and serves the REPL until the input ends or the user
// exits.
func (a *App) Run(ctx context.Context, startHash string) {
	a.Start(ctx, startHash)
	runREPL(ctx, a, a.reader, a.out)
}

// checkAuth refreshes the session user from the backend. Any failure counts
// as signed out.
func (a *App) checkAuth(ctx context.Context) {
	u, err := a.auth.CurrentUser(ctx)
	if err != nil {
		a.logger.Debug(ctx, "session check failed", "error", err)
		u = nil
	}
	a.state = a.state.WithUser(u)
}

func (a *App) toast(msg string) {
	a.toasts = append(a.toasts, msg)
}

// toastErr shows err to the user. Messages meant for users (API and
// validation errors) are shown verbatim, anything else gets fallback.
func (a *App) toastErr(ctx context.Context, err error, fallback string) {
	a.logger.Debug(ctx, "action failed", "error", err)
	a.toast(userMessage(err, fallback))
}

func userMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var vErr *services.ValidationError
	if errors.As(err, &vErr) && vErr.Message != "" {
		return vErr.Message
	}
	return fallback
}

// render draws the current page with any pending toasts, then drops them.
func (a *App) render(ctx context.Context) {
	s := view.Screen{
		Nav:    view.Nav{Authenticated: a.state.Authenticated()},
		Page:   a.page,
		Toasts: a.toasts,
	}
	a.toasts = nil
	if err := a.renderer.Render(a.out, s); err != nil {
		a.logger.Error(ctx, "render failed", "error", err)
	}
}

// redraw re-renders the current route from state without any network call.
func (a *App) redraw(ctx context.Context) {
	if a.loc.Route == router.App {
		a.page = view.NotesPage(a.state)
	}
	a.render(ctx)
}

func (a *App) since(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}
