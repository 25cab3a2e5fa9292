package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

const (
	MinPasswordLength = 8
	MinUsernameLength = 2
	MaxUsernameLength = 100
)

// AuthService defines the account operations available to the client.
//
// Passwords are taken as byte slices and zeroed before the method returns,
// whether or not the request succeeded.
type AuthService interface {
	Register(ctx context.Context, username, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	// CurrentUser returns the signed-in user, or nil when there is no
	// session. Only unexpected failures are returned as errors.
	CurrentUser(ctx context.Context) (*models.User, error)
	ChangePassword(ctx context.Context, current, next []byte) error
	ResendVerification(ctx context.Context) error
	RequestMagicLink(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) error
	VerifyMagicLink(ctx context.Context, token string) (*models.User, error)
	ResetPassword(ctx context.Context, token string, password []byte) error
}

type authService struct {
	client client.Client
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(c client.Client) AuthService {
	return &authService{client: c}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", invalid(MsgEmailRequired)
	}
	return email, nil
}

func checkNewPassword(password []byte) error {
	if len(password) == 0 {
		return invalid(MsgPasswordRequired)
	}
	if utf8.RuneCount(password) < MinPasswordLength {
		return invalid(MsgPasswordTooShort)
	}
	return nil
}

func (a *authService) Register(ctx context.Context, username, email string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return nil, invalid(MsgUsernameLength)
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := checkNewPassword(password); err != nil {
		return nil, err
	}

	return a.client.Register(ctx, email, string(password), username)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, invalid(MsgPasswordRequired)
	}
	return a.client.Login(ctx, email, string(password))
}

func (a *authService) Logout(ctx context.Context) error {
	return a.client.Logout(ctx)
}

func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	u, err := a.client.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (a *authService) ChangePassword(ctx context.Context, current, next []byte) error {
	defer common.WipeByteArray(current)
	defer common.WipeByteArray(next)

	if len(current) == 0 {
		return invalid(MsgPasswordRequired)
	}
	if err := checkNewPassword(next); err != nil {
		return err
	}
	return a.client.ChangePassword(ctx, string(current), string(next))
}

func (a *authService) ResendVerification(ctx context.Context) error {
	return a.client.ResendVerification(ctx)
}

func (a *authService) RequestMagicLink(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	return a.client.RequestMagicLink(ctx, email)
}

func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) VerifyEmail(ctx context.Context, token string) error {
	return a.client.VerifyEmail(ctx, token)
}

func (a *authService) VerifyMagicLink(ctx context.Context, token string) (*models.User, error) {
	return a.client.VerifyMagicLink(ctx, token)
}

func (a *authService) ResetPassword(ctx context.Context, token string, password []byte) error {
	defer common.WipeByteArray(password)

	if strings.TrimSpace(token) == "" {
		return invalid(MsgTokenRequired)
	}
	if err := checkNewPassword(password); err != nil {
		return err
	}
	return a.client.ResetPassword(ctx, token, string(password))
}
