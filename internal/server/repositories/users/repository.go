// Package users declares the repository contract for user accounts and its
// in-memory implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// Repository stores user accounts. Lookups by email are case-insensitive.
// Missing users are reported as common.ErrorNotFound, a taken email as
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update replaces the stored user with the same ID.
	Update(ctx context.Context, user *models.User) error
}
