package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

// SessionService mints and checks the signed session tokens kept in the
// session cookie. A session ends when it expires, when it is revoked by
// logout, or when the user's session epoch moves past it.
type SessionService struct {
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	ttl         time.Duration
	now         func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewSessionService(m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		ttl:         cfg.SessionTTL.Duration,
		now:         time.Now,
		revoked:     make(map[string]time.Time),
	}
}

// TTL is the lifetime of a new session.
func (s *SessionService) TTL() time.Duration { return s.ttl }

// Issue starts a session for user.
func (s *SessionService) Issue(ctx context.Context, user *models.User) (string, *auth.Claims, error) {
	token, claims, err := auth.GenerateToken(user.ID, user.SessionEpoch, s.jwtSecret, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}
	return token, claims, nil
}

// Authenticate resolves a session token to its user. Every failure is
// reported as common.ErrorUnauthorized.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*models.User, *auth.Claims, error) {
	if token == "" {
		return nil, nil, common.ErrorUnauthorized
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	if s.isRevoked(claims.ID) {
		return nil, nil, fmt.Errorf("%w: session revoked", common.ErrorUnauthorized)
	}

	user, err := s.repomanager.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, fmt.Errorf("%w: user gone", common.ErrorUnauthorized)
		}
		return nil, nil, fmt.Errorf("load session user: %w", err)
	}

	if claims.Epoch != user.SessionEpoch {
		return nil, nil, fmt.Errorf("%w: session superseded", common.ErrorUnauthorized)
	}

	return user, claims, nil
}

// Revoke ends the session described by claims.
func (s *SessionService) Revoke(claims *auth.Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	exp := s.now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	s.revoked[claims.ID] = exp
	s.mu.Unlock()
}

func (s *SessionService) isRevoked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[id]
	return ok
}

// Sweep forgets revocations of sessions that have expired anyway.
func (s *SessionService) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
			n++
		}
	}
	return n
}
