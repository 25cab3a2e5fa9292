package services

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/mail"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/ratelimit"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordBytes  = 72
	MinUsernameLength = 2
	MaxUsernameLength = 100
)

// UserService handles accounts and every flow that ends in an emailed
// token: email verification, magic-link sign-in and password reset.
type UserService struct {
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	mailer      mail.Mailer
	composer    mail.Composer
	limiter     *ratelimit.Keyed
	logger      logging.Logger
	bcryptCost  int
}

func NewUserService(m repomanager.RepositoryManager, tokens *TokenService, mailer mail.Mailer, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		repomanager: m,
		tokens:      tokens,
		mailer:      mailer,
		composer:    mail.Composer{BaseURL: cfg.BaseURL},
		limiter:     ratelimit.PerMinute(cfg.RateLimitPerMinute),
		logger:      logger.With("module", "users"),
		bcryptCost:  bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", invalid(MsgEmailRequired)
	}
	addr, err := netmail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid(MsgEmailInvalid)
	}
	return strings.ToLower(email), nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return invalid(MsgPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return invalid(MsgPasswordTooLong)
	}
	return nil
}

func (s *UserService) hash(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

// Register creates an unverified account and emails a verification link.
// A failed email does not undo the registration; the user can resend.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return nil, invalid(MsgUsernameLength)
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", common.ErrorAlreadyExists, MsgEmailTaken)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendToken(ctx, user, models.PurposeVerifyEmail); err != nil {
		s.logger.Warn(ctx, "verification email not sent", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// Login checks the credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword replaces the password and ends every existing session of
// the user. The returned user carries the new session epoch.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) (*models.User, error) {
	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(current)) != nil {
		return nil, ErrWrongPassword
	}
	if err := validatePassword(next); err != nil {
		return nil, err
	}
	if current == next {
		return nil, invalid(MsgSamePassword)
	}

	return s.setPassword(ctx, user, next)
}

func (s *UserService) setPassword(ctx context.Context, user *models.User, password string) (*models.User, error) {
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.SessionEpoch++
	if err := s.repomanager.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ResendVerification emails a fresh verification link. Earlier links stop
// working. It is a no-op returning a ValidationError once verified.
func (s *UserService) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user.EmailVerified {
		return invalid(MsgAlreadyVerified)
	}
	if !s.limiter.Allow(user.Email) {
		return ErrRateLimited
	}
	return s.sendToken(ctx, user, models.PurposeVerifyEmail)
}

// RequestMagicLink emails a sign-in link. Unknown addresses succeed
// silently so the endpoint cannot be used to probe for accounts.
func (s *UserService) RequestMagicLink(ctx context.Context, email string) error {
	return s.sendIfKnown(ctx, email, models.PurposeMagicLink)
}

// ForgotPassword emails a reset link, with the same silence for unknown
// addresses as RequestMagicLink.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	return s.sendIfKnown(ctx, email, models.PurposeResetPassword)
}

func (s *UserService) sendIfKnown(ctx context.Context, email string, purpose models.TokenPurpose) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if !s.limiter.Allow(email) {
		return ErrRateLimited
	}

	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "token requested for unknown email", "purpose", purpose)
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}

	if err := s.sendToken(ctx, user, purpose); err != nil {
		s.logger.Error(ctx, "token email not sent", "user_id", user.ID, "purpose", purpose, "error", err)
	}
	return nil
}

func (s *UserService) sendToken(ctx context.Context, user *models.User, purpose models.TokenPurpose) error {
	token, err := s.tokens.Issue(ctx, user.ID, purpose)
	if err != nil {
		return err
	}

	email, err := s.composer.Compose(purpose, user.Email, user.Username, token, s.tokens.TTL(purpose))
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("send %s email: %w", purpose, err)
	}

	s.logger.Debug(ctx, "token email sent", "user_id", user.ID, "purpose", purpose)
	return nil
}

// VerifyEmail redeems a verification token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	user, err := s.redeem(ctx, token, models.PurposeVerifyEmail)
	if err != nil {
		return nil, err
	}
	return s.markVerified(ctx, user)
}

// VerifyMagicLink redeems a magic-link token. Following the link proves
// control of the address, so the email counts as verified afterwards.
func (s *UserService) VerifyMagicLink(ctx context.Context, token string) (*models.User, error) {
	user, err := s.redeem(ctx, token, models.PurposeMagicLink)
	if err != nil {
		return nil, err
	}
	return s.markVerified(ctx, user)
}

// ResetPassword redeems a reset token and sets a new password. Every
// existing session of the user ends.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) (*models.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	user, err := s.redeem(ctx, token, models.PurposeResetPassword)
	if err != nil {
		return nil, err
	}
	user.EmailVerified = true
	return s.setPassword(ctx, user, password)
}

func (s *UserService) redeem(ctx context.Context, token string, purpose models.TokenPurpose) (*models.User, error) {
	userID, err := s.tokens.Redeem(ctx, strings.TrimSpace(token), purpose)
	if err != nil {
		return nil, err
	}
	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *UserService) markVerified(ctx context.Context, user *models.User) (*models.User, error) {
	if user.EmailVerified {
		return user, nil
	}
	user.EmailVerified = true
	if err := s.repomanager.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users().GetByID(ctx, userID)
}

// PruneLimiter forgets rate-limit state of idle addresses.
func (s *UserService) PruneLimiter() int {
	return s.limiter.Prune()
}
