// Package server wires the notes backend together: in-memory repositories,
// services, the mailer and the HTTP API. It runs the HTTP server until the
// context is cancelled or a termination signal arrives, then shuts down
// gracefully.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/httpapi"
	"github.com/dmitrijs2005/gophnotes/internal/server/mail"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 5 * time.Second
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	handler  http.Handler
	users    *services.UserService
	tokens   *services.TokenService
	sessions *services.SessionService
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	mailer, inbox, err := mail.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("mailer init error: %w", err)
	}

	rm := repomanager.NewInMemoryManager()
	tokens := services.NewTokenService(rm, cfg)
	users := services.NewUserService(rm, tokens, mailer, cfg, logger)
	sessions := services.NewSessionService(rm, cfg)
	notes := services.NewNoteService(rm)

	if logging.ParseLevel(cfg.LogLevel) > logging.ParseLevel("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	h := httpapi.New(httpapi.Deps{
		Config:   cfg,
		Logger:   logger,
		Users:    users,
		Sessions: sessions,
		Notes:    notes,
		Inbox:    inbox,
	})

	return &App{
		config:   cfg,
		logger:   logger,
		handler:  h,
		users:    users,
		tokens:   tokens,
		sessions: sessions,
	}, nil
}

// Handler serves the API; tests mount it on httptest servers.
func (app *App) Handler() http.Handler {
	return app.handler
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// sweep drops expired tokens, stale revocations and idle rate limiters.
func (app *App) sweep(ctx context.Context) {
	n, err := app.tokens.Sweep(ctx)
	if err != nil {
		app.logger.Warn(ctx, "token sweep failed", "error", err)
	}
	r := app.sessions.Sweep()
	l := app.users.PruneLimiter()
	app.logger.Debug(ctx, "sweep", "tokens", n, "revocations", r, "limiters", l)
}

func (app *App) startJanitor(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.sweep(ctx)
		}
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	srv := &http.Server{
		Addr:              app.config.Address,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.Address,
		"email_provider", app.config.EmailProvider)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancelFunc()
		return err
	}
	return nil
}

// Run blocks until ctx is cancelled, a signal arrives or the listener fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		srvErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startJanitor(ctx)
	}()
	go func() {
		defer wg.Done()
		srvErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	return srvErr
}
