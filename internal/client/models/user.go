// Package models defines client-side data models exchanged with the notes
// backend.
package models

// User is the signed-in identity as reported by /api/auth/me.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}
