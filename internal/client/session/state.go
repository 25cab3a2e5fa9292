// Package session holds the client's in-memory view of the signed-in user,
// the cached notes and the note being edited.
//
// State is a value. Every transition returns a new State and leaves its
// receiver untouched, so callers can keep the previous state around (for
// example to redraw after a failed request).
package session

import (
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

type State struct {
	User      *models.User
	Notes     []models.Note
	EditingID string
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool {
	return s.User != nil
}

// Editing reports whether the note form is in edit mode.
func (s State) Editing() bool {
	return s.EditingID != ""
}

// WithUser replaces the session user. A nil user signs out without touching
// the note cache; use SignedOut to drop everything.
func (s State) WithUser(u *models.User) State {
	if u != nil {
		cp := *u
		u = &cp
	}
	s.User = u
	return s
}

// SignedOut drops the user, the cached notes and the edit mode.
func (s State) SignedOut() State {
	return State{Notes: []models.Note{}}
}

// WithNotes replaces the note cache with a copy of notes.
func (s State) WithNotes(notes []models.Note) State {
	s.Notes = append(make([]models.Note, 0, len(notes)), notes...)
	return s
}

// PrependNote puts a freshly created note at the top of the cache.
func (s State) PrependNote(n models.Note) State {
	out := make([]models.Note, 0, len(s.Notes)+1)
	out = append(out, n)
	s.Notes = append(out, s.Notes...)
	return s
}

// ReplaceNote swaps the cached note that has n's id. Unknown ids leave the
// cache unchanged.
func (s State) ReplaceNote(n models.Note) State {
	out := make([]models.Note, len(s.Notes))
	for i, cur := range s.Notes {
		if cur.ID == n.ID {
			cur = n
		}
		out[i] = cur
	}
	s.Notes = out
	return s
}

// RemoveNote filters the note with id out of the cache.
func (s State) RemoveNote(id string) State {
	out := make([]models.Note, 0, len(s.Notes))
	for _, cur := range s.Notes {
		if cur.ID != id {
			out = append(out, cur)
		}
	}
	s.Notes = out
	if s.EditingID == id {
		s.EditingID = ""
	}
	return s
}

// FindNote looks a note up in the cache.
func (s State) FindNote(id string) (models.Note, bool) {
	for _, n := range s.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return models.Note{}, false
}

// StartEditing enters edit mode for id. Only one note is edited at a time;
// starting a new edit replaces the previous one. Ids missing from the cache
// are ignored and reported with false.
func (s State) StartEditing(id string) (State, bool) {
	if _, ok := s.FindNote(id); !ok {
		return s, false
	}
	s.EditingID = id
	return s, true
}

// StopEditing leaves edit mode.
func (s State) StopEditing() State {
	s.EditingID = ""
	return s
}
