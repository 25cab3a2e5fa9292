// Package mailbox reads delivered email from a Mailpit-compatible HTTP API.
//
// It is used by the terminal client's "inbox" command and by end-to-end
// tests to pick up verification, magic-link and reset tokens. The wire types
// in this file are also what the reference backend's in-memory mailer serves.
package mailbox

import (
	"strings"
	"time"
)

// Address is a single mailbox address.
type Address struct {
	Name    string `json:"Name"`
	Address string `json:"Address"`
}

// Summary is a message as listed by GET /api/v1/messages.
type Summary struct {
	ID      string    `json:"ID"`
	From    Address   `json:"From"`
	To      []Address `json:"To"`
	Subject string    `json:"Subject"`
	Created time.Time `json:"Created"`
}

// Message is a full message as returned by GET /api/v1/message/{id}.
type Message struct {
	ID      string    `json:"ID"`
	From    Address   `json:"From"`
	To      []Address `json:"To"`
	Subject string    `json:"Subject"`
	Date    time.Time `json:"Date"`
	Text    string    `json:"Text"`
	HTML    string    `json:"HTML"`
}

// List is the envelope of GET /api/v1/messages.
type List struct {
	Total    int       `json:"total"`
	Count    int       `json:"count"`
	Messages []Summary `json:"messages"`
}

// Filter selects messages by recipient and subject. Empty fields match
// everything; both comparisons are case-insensitive substring matches.
type Filter struct {
	To      string
	Subject string
}

func (f Filter) Match(s Summary) bool {
	if f.Subject != "" && !strings.Contains(strings.ToLower(s.Subject), strings.ToLower(f.Subject)) {
		return false
	}
	if f.To == "" {
		return true
	}
	to := strings.ToLower(f.To)
	for _, a := range s.To {
		if strings.Contains(strings.ToLower(a.Address), to) {
			return true
		}
	}
	return false
}

// Latest returns the most recently created summary matching f.
func Latest(list []Summary, f Filter) (Summary, bool) {
	var (
		best  Summary
		found bool
	)
	for _, s := range list {
		if !f.Match(s) {
			continue
		}
		if !found || s.Created.After(best.Created) {
			best, found = s, true
		}
	}
	return best, found
}

// Subjects of the emails sent by the notes backend. Filters match them as
// case-insensitive substrings.
const (
	SubjectVerifyEmail   = "Verify your email"
	SubjectMagicLink     = "Your login link"
	SubjectResetPassword = "Reset your password"
)
