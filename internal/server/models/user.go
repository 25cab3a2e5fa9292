package models

import "time"

type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  []byte
	EmailVerified bool
	// SessionEpoch increases whenever all sessions of the user must end
	// (password change or reset). Sessions carry the epoch they were issued in.
	SessionEpoch int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the user as exposed by the API.
type PublicUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
