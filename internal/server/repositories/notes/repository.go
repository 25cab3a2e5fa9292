// Package notes declares the repository contract for notes and its in-memory
// implementation.
package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// Repository stores notes. Every lookup is scoped to the owning user; a note
// of another user is reported as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	// ListByUser returns the user's notes newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Note, error)
	Update(ctx context.Context, userID, id, title, body string) (*models.Note, error)
	Delete(ctx context.Context, userID, id string) error
}
