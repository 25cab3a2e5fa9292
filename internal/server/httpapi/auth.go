package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

const (
	msgRegistered    = "Registration successful. Check your email to verify your account."
	msgLinkMaybeSent = "If an account exists for that email, a link has been sent."
	msgLoggedOut     = "Logged out"
	msgPasswordSet   = "Password updated"
	msgEmailVerified = "Email verified"
	msgVerifySent    = "Verification email sent"
	msgPasswordReset = "Password reset"
)

func (s *Server) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

// register creates the account and signs the new user in right away.
func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if !s.bind(c, &req) {
		return
	}
	user, err := s.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	if err := s.startSession(c, user); err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user.Public(), "message": msgRegistered})
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if !s.bind(c, &req) {
		return
	}
	user, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	if err := s.startSession(c, user); err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

// logout succeeds with or without a session.
func (s *Server) logout(c *gin.Context) {
	s.sessions.Revoke(currentClaims(c))
	s.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": msgLoggedOut})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c).Public()})
}

// changePassword ends every session of the user and keeps this client
// signed in with a fresh one.
func (s *Server) changePassword(c *gin.Context) {
	var req passwordRequest
	if !s.bind(c, &req) {
		return
	}
	user, err := s.users.ChangePassword(c.Request.Context(), currentUser(c).ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	if err := s.startSession(c, user); err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgPasswordSet})
}

// verifyEmail leaves the session untouched.
func (s *Server) verifyEmail(c *gin.Context) {
	var req tokenRequest
	if !s.bind(c, &req) {
		return
	}
	user, err := s.users.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgEmailVerified, "user": user.Public()})
}

func (s *Server) resendVerification(c *gin.Context) {
	if err := s.users.ResendVerification(c.Request.Context(), currentUser(c).ID); err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgVerifySent})
}

func (s *Server) requestMagicLink(c *gin.Context) {
	var req emailRequest
	if !s.bind(c, &req) {
		return
	}
	if err := s.users.RequestMagicLink(c.Request.Context(), req.Email); err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgLinkMaybeSent})
}

// verifyMagicLink replaces any current session with one for the link owner.
func (s *Server) verifyMagicLink(c *gin.Context) {
	user, err := s.users.VerifyMagicLink(c.Request.Context(), c.Query("token"))
	if err != nil {
		s.fail(c, err, "")
		return
	}
	s.sessions.Revoke(currentClaims(c))
	if err := s.startSession(c, user); err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req emailRequest
	if !s.bind(c, &req) {
		return
	}
	if err := s.users.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgLinkMaybeSent})
}

// resetPassword sets the new password and signs the user in.
func (s *Server) resetPassword(c *gin.Context) {
	var req resetRequest
	if !s.bind(c, &req) {
		return
	}
	user, err := s.users.ResetPassword(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	if err := s.startSession(c, user); err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgPasswordReset, "user": user.Public()})
}
