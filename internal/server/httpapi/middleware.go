package httpapi

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

const (
	ctxUser   = "user"
	ctxClaims = "claims"
)

// requestLogger logs one line per request. The query string is left out
// since it may carry a token.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// cors admits credentialed cross-origin calls from the configured origins.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && slices.Contains(s.cfg.AllowedOrigins, origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, "+common.CSRFHeaderName)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// csrfProtect rejects mutating requests whose header token does not match
// the csrf_token cookie.
func (s *Server) csrfProtect() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isMutating(c.Request.Method) {
			c.Next()
			return
		}
		header := c.GetHeader(common.CSRFHeaderName)
		cookie, err := c.Cookie(common.CSRFCookieName)
		if err != nil || !cryptox.Equal(header, cookie) {
			s.logger.Warn(c.Request.Context(), "csrf rejected", "path", c.Request.URL.Path)
			abort(c, http.StatusForbidden, msgInvalidCSRF)
			return
		}
		c.Next()
	}
}

// loadSession attaches the session user, if any. It never rejects.
func (s *Server) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(common.SessionCookieName)
		if err == nil && token != "" {
			user, claims, err := s.sessions.Authenticate(c.Request.Context(), token)
			if err == nil {
				c.Set(ctxUser, user)
				c.Set(ctxClaims, claims)
			} else {
				s.logger.Debug(c.Request.Context(), "session rejected", "error", err)
			}
		}
		c.Next()
	}
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			abort(c, http.StatusUnauthorized, msgAuthRequired)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func currentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	cl, _ := v.(*auth.Claims)
	return cl
}
