package services

import (
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// ValidationError is returned for input rejected before any request is made.
// Its message is meant to be shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return common.ErrorValidation }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

const (
	MsgEmailRequired    = "Enter your email first."
	MsgPasswordRequired = "Password is required."
	MsgPasswordTooShort = "Password must be at least 8 characters."
	MsgUsernameLength   = "Name must be between 2 and 100 characters."
	MsgNoteRequired     = "Title and body are required."
	MsgTitleLength      = "Title must be between 1 and 200 characters"
	MsgBodyLength       = "Body must be between 1 and 5000 characters"
	MsgTokenRequired    = "Reset link is missing its token."
)
