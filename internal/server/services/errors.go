package services

import (
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// ValidationError is a rejected input. Message is safe to show to users.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return common.ErrorValidation }

func invalid(msg string) error { return &ValidationError{Message: msg} }

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRateLimited        = errors.New("too many requests")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

const (
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Invalid email address"
	MsgPasswordLength  = "Password must be at least 8 characters"
	MsgPasswordTooLong = "Password must be at most 72 bytes"
	MsgUsernameLength  = "Username must be between 2 and 100 characters"
	MsgTitleLength     = "Title must be between 1 and 200 characters"
	MsgBodyLength      = "Body must be between 1 and 5000 characters"
	MsgTokenRequired   = "Token is required"
	MsgSamePassword    = "New password must differ from the current one"
	MsgAlreadyVerified = "Email already verified"
	MsgEmailTaken      = "Email already registered"
)
