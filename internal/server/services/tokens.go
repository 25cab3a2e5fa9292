package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

// TokenService issues and redeems the single-use tokens sent by email.
// Tokens are random hex strings; only their SHA-256 hash is stored.
type TokenService struct {
	repomanager repomanager.RepositoryManager
	ttls        map[models.TokenPurpose]time.Duration
	now         func() time.Time
}

func NewTokenService(m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		repomanager: m,
		ttls: map[models.TokenPurpose]time.Duration{
			models.PurposeVerifyEmail:   cfg.VerifyTTL.Duration,
			models.PurposeMagicLink:     cfg.MagicLinkTTL.Duration,
			models.PurposeResetPassword: cfg.ResetTTL.Duration,
		},
		now: time.Now,
	}
}

// TTL is the lifetime of tokens of the given purpose.
func (s *TokenService) TTL(purpose models.TokenPurpose) time.Duration {
	return s.ttls[purpose]
}

// Issue creates a token for userID. Older unused tokens of the same purpose
// stop working.
func (s *TokenService) Issue(ctx context.Context, userID string, purpose models.TokenPurpose) (string, error) {
	ttl, ok := s.ttls[purpose]
	if !ok {
		return "", fmt.Errorf("unknown token purpose %q", purpose)
	}

	token, err := cryptox.NewToken(common.TokenSize)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	now := s.now().UTC()
	err = s.repomanager.Tokens().Create(ctx, &models.EmailToken{
		Hash:      cryptox.HashToken(token),
		UserID:    userID,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	return token, nil
}

// Redeem consumes token and returns the user it was issued to.
func (s *TokenService) Redeem(ctx context.Context, token string, purpose models.TokenPurpose) (string, error) {
	if token == "" {
		return "", invalid(MsgTokenRequired)
	}

	t, err := s.repomanager.Tokens().Consume(ctx, cryptox.HashToken(token), purpose, s.now().UTC())
	if err != nil {
		return "", fmt.Errorf("redeem %s token: %w", purpose, err)
	}
	return t.UserID, nil
}

// Sweep drops expired tokens.
func (s *TokenService) Sweep(ctx context.Context) (int, error) {
	return s.repomanager.Tokens().DeleteExpired(ctx, s.now().UTC())
}
