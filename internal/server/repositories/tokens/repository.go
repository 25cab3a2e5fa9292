// Package tokens declares the repository contract for emailed single-use
// tokens and its in-memory implementation.
package tokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Repository interface {
	// Create stores a token and marks every unused token of the same user
	// and purpose as used, so only the newest link works.
	Create(ctx context.Context, token *models.EmailToken) error
	// Consume marks the token with the given hash and purpose as used at
	// now and returns it. It fails with common.ErrInvalidToken when no such
	// token exists, common.ErrTokenUsed when it was already consumed and
	// common.ErrTokenExpired when it is past its expiry.
	Consume(ctx context.Context, hash string, purpose models.TokenPurpose, now time.Time) (*models.EmailToken, error)
	// DeleteExpired drops tokens that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
