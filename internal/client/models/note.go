package models

import "time"

const (
	// MaxTitleLength bounds Note.Title, counted in characters.
	MaxTitleLength = 200
	// MaxBodyLength bounds Note.Body, counted in characters.
	MaxBodyLength = 5000
)

// Note is a single user-owned note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteInput is the payload of create and update requests.
type NoteInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
