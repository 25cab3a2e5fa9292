package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
)

const (
	msgAuthRequired   = "Authentication required"
	msgInvalidBody    = "Invalid request body"
	msgInvalidCSRF    = "invalid CSRF token"
	msgInternal       = "Internal server error"
	msgInvalidNoteID  = "Invalid note id"
	msgNoteNotFound   = "Note not found"
	msgBadCredentials = "Invalid email or password"
	msgWrongPassword  = "Current password is incorrect"
	msgRateLimited    = "Too many requests. Please try again later."
	msgEmailTaken     = "Email already registered"
	msgTokenInvalid   = "Invalid or expired link"
	msgTokenUsed      = "This link has already been used"
	msgTokenExpired   = "This link has expired"
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// fail maps a service error to a status and a user-facing message. Errors
// without a mapping are logged and reported as 500.
func (s *Server) fail(c *gin.Context, err error, notFound string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		abort(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrInvalidCredentials):
		abort(c, http.StatusUnauthorized, msgBadCredentials)
	case errors.Is(err, services.ErrWrongPassword):
		abort(c, http.StatusBadRequest, msgWrongPassword)
	case errors.Is(err, services.ErrRateLimited):
		abort(c, http.StatusTooManyRequests, msgRateLimited)
	case errors.Is(err, common.ErrorAlreadyExists):
		abort(c, http.StatusConflict, msgEmailTaken)
	case errors.Is(err, common.ErrTokenUsed):
		abort(c, http.StatusBadRequest, msgTokenUsed)
	case errors.Is(err, common.ErrTokenExpired):
		abort(c, http.StatusBadRequest, msgTokenExpired)
	case errors.Is(err, common.ErrInvalidToken):
		abort(c, http.StatusBadRequest, msgTokenInvalid)
	case errors.Is(err, common.ErrorUnauthorized):
		abort(c, http.StatusUnauthorized, msgAuthRequired)
	case errors.Is(err, common.ErrorNotFound) && notFound != "":
		abort(c, http.StatusNotFound, notFound)
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		abort(c, http.StatusInternalServerError, msgInternal)
	}
}

func (s *Server) onPanic(c *gin.Context, v any) {
	s.logger.Error(c.Request.Context(), "panic", "path", c.Request.URL.Path, "panic", v)
	abort(c, http.StatusInternalServerError, msgInternal)
}
