package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

func (s *Server) setCookie(c *gin.Context, name, value string, httpOnly bool, expires time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: httpOnly,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// startSession issues a session for user and stores it in the cookie.
func (s *Server) startSession(c *gin.Context, user *models.User) error {
	token, claims, err := s.sessions.Issue(c.Request.Context(), user)
	if err != nil {
		return err
	}
	s.setCookie(c, common.SessionCookieName, token, true, claims.ExpiresAt.Time)
	return nil
}

func (s *Server) clearSession(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// issueCSRF hands out a fresh anti-forgery token and binds it to a cookie.
func (s *Server) issueCSRF(c *gin.Context) {
	token, err := cryptox.NewToken(common.TokenSize)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	s.setCookie(c, common.CSRFCookieName, token, false, time.Now().Add(s.sessions.TTL()))
	c.JSON(http.StatusOK, gin.H{"token": token})
}
