// Package httpapi exposes the notes backend as a JSON API over gin.
//
// Mutating requests under /api must carry the anti-forgery token issued by
// GET /api/csrf in the X-CSRF-Token header; the token is bound to the
// csrf_token cookie. Sessions live in the HttpOnly session_token cookie.
// Every error body has the shape {"error": "..."}.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/mail"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
)

// Deps are the services the API is built on. Inbox is optional; when set,
// its Mailpit-compatible routes are mounted too.
type Deps struct {
	Config   *config.Config
	Logger   logging.Logger
	Users    *services.UserService
	Sessions *services.SessionService
	Notes    *services.NoteService
	Inbox    *mail.MemoryMailer
}

type Server struct {
	cfg      *config.Config
	logger   logging.Logger
	users    *services.UserService
	sessions *services.SessionService
	notes    *services.NoteService
}

// New returns the gin engine serving the API.
func New(d Deps) *gin.Engine {
	s := &Server{
		cfg:      d.Config,
		logger:   d.Logger.With("module", "httpapi"),
		users:    d.Users,
		sessions: d.Sessions,
		notes:    d.Notes,
	}

	r := gin.New()
	r.Use(s.requestLogger(), gin.CustomRecovery(s.onPanic), s.cors())
	r.NoRoute(func(c *gin.Context) { abort(c, http.StatusNotFound, "Not found") })

	if d.Inbox != nil {
		d.Inbox.RegisterRoutes(r)
	}

	api := r.Group("/api", s.csrfProtect(), s.loadSession())
	api.GET("/csrf", s.issueCSRF)

	a := api.Group("/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.POST("/logout", s.logout)
	a.GET("/me", s.requireAuth(), s.me)
	a.POST("/password", s.requireAuth(), s.changePassword)
	a.POST("/verify-email", s.verifyEmail)
	a.POST("/resend-verification", s.requireAuth(), s.resendVerification)
	a.POST("/magic-link", s.requestMagicLink)
	a.GET("/magic-link/verify", s.verifyMagicLink)
	a.POST("/forgot-password", s.forgotPassword)
	a.POST("/reset-password", s.resetPassword)

	n := api.Group("/notes", s.requireAuth())
	n.GET("", s.listNotes)
	n.POST("", s.createNote)
	n.PUT("/:id", s.updateNote)
	n.DELETE("/:id", s.deleteNote)

	return r
}
