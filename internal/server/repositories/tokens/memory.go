package tokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]models.EmailToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string]models.EmailToken)}
}

func (r *MemoryRepository) Create(ctx context.Context, token *models.EmailToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token.Hash]; ok {
		return common.ErrorAlreadyExists
	}

	for h, t := range r.tokens {
		if t.UserID == token.UserID && t.Purpose == token.Purpose && t.UsedAt == nil {
			used := token.CreatedAt
			t.UsedAt = &used
			r.tokens[h] = t
		}
	}

	r.tokens[token.Hash] = *token
	return nil
}

func (r *MemoryRepository) Consume(ctx context.Context, hash string, purpose models.TokenPurpose, now time.Time) (*models.EmailToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[hash]
	if !ok || t.Purpose != purpose {
		return nil, common.ErrInvalidToken
	}
	if t.UsedAt != nil {
		return nil, common.ErrTokenUsed
	}
	if !now.Before(t.ExpiresAt) {
		return nil, common.ErrTokenExpired
	}

	t.UsedAt = &now
	r.tokens[hash] = t
	return &t, nil
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for h, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.tokens, h)
			n++
		}
	}
	return n, nil
}
