package models

import "time"

// TokenPurpose tells what an emailed token may be redeemed for.
type TokenPurpose string

const (
	PurposeVerifyEmail   TokenPurpose = "verify-email"
	PurposeMagicLink     TokenPurpose = "magic-link"
	PurposeResetPassword TokenPurpose = "reset-password"
)

// EmailToken is a single-use token sent by email. Only the SHA-256 hash of
// the token is stored.
type EmailToken struct {
	Hash      string
	UserID    string
	Purpose   TokenPurpose
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
