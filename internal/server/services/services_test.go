package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/mailbox"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	smail "github.com/dmitrijs2005/gophnotes/internal/server/mail"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

type harness struct {
	cfg      *config.Config
	rm       *repomanager.InMemoryManager
	mailer   *smail.MemoryMailer
	tokens   *TokenService
	users    *UserService
	sessions *SessionService
	notes    *NoteService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.RateLimitPerMinute = 100

	h := &harness{cfg: cfg, rm: repomanager.NewInMemoryManager()}
	h.mailer = smail.NewMemoryMailer(mail.Address{Address: "noreply@notes.local"})
	h.tokens = NewTokenService(h.rm, cfg)
	h.users = NewUserService(h.rm, h.tokens, h.mailer, cfg, logging.Discard())
	h.users.bcryptCost = bcrypt.MinCost
	h.sessions = NewSessionService(h.rm, cfg)
	h.notes = NewNoteService(h.rm)
	return h
}

// lastToken pulls the token for route out of the newest email sent to addr.
func (h *harness) lastToken(t *testing.T, addr, subject, route string) string {
	t.Helper()
	list := h.mailer.Messages()
	s, ok := mailbox.Latest(list.Messages, mailbox.Filter{To: addr, Subject: subject})
	require.True(t, ok, "no %q email for %s", subject, addr)
	msg, _ := h.mailer.Message(s.ID)
	tok, err := mailbox.ExtractToken(&msg, route)
	require.NoError(t, err)
	return tok
}

func (h *harness) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := h.users.Register(context.Background(), "ann", email, "password1")
	require.NoError(t, err)
	return u
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name, username, email, password, msg string
	}{
		{"short username", "a", "a@test.com", "password1", MsgUsernameLength},
		{"no email", "ann", "  ", "password1", MsgEmailRequired},
		{"bad email", "ann", "not-an-email", "password1", MsgEmailInvalid},
		{"display name email", "ann", "Ann <a@test.com>", "password1", MsgEmailInvalid},
		{"short password", "ann", "a@test.com", "short", MsgPasswordLength},
		{"long password", "ann", "a@test.com", strings.Repeat("x", 73), MsgPasswordTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.users.Register(ctx, tt.username, tt.email, tt.password)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.msg, ve.Message)
			assert.True(t, errors.Is(err, common.ErrorValidation))
		})
	}
}

func TestRegister_SendsVerificationAndRejectsDuplicates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u, err := h.users.Register(ctx, " ann ", "Ann@Test.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "ann", u.Username)
	assert.Equal(t, "ann@test.com", u.Email)
	assert.False(t, u.EmailVerified)
	assert.NotEqual(t, []byte("password1"), u.PasswordHash)

	tok := h.lastToken(t, "ann@test.com", mailbox.SubjectVerifyEmail, smail.RouteVerifyEmail)
	assert.Len(t, tok, 2*common.TokenSize)

	_, err = h.users.Register(ctx, "other", "ann@test.com", "password2")
	assert.True(t, errors.Is(err, common.ErrorAlreadyExists))
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "ann@test.com")

	u, err := h.users.Login(ctx, "ann@test.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "ann@test.com", u.Email)

	_, err = h.users.Login(ctx, "ann@test.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = h.users.Login(ctx, "nobody@test.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyEmail_SingleUse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "ann@test.com")
	tok := h.lastToken(t, "ann@test.com", mailbox.SubjectVerifyEmail, smail.RouteVerifyEmail)

	u, err := h.users.VerifyEmail(ctx, tok)
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)

	_, err = h.users.VerifyEmail(ctx, tok)
	assert.ErrorIs(t, err, common.ErrTokenUsed)

	_, err = h.users.VerifyEmail(ctx, "")
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = h.users.VerifyEmail(ctx, "deadbeef")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestResendVerification_InvalidatesOlderLink(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.register(t, "ann@test.com")
	first := h.lastToken(t, "ann@test.com", mailbox.SubjectVerifyEmail, smail.RouteVerifyEmail)

	time.Sleep(time.Millisecond)
	require.NoError(t, h.users.ResendVerification(ctx, u.ID))
	second := h.lastToken(t, "ann@test.com", mailbox.SubjectVerifyEmail, smail.RouteVerifyEmail)
	require.NotEqual(t, first, second)

	_, err := h.users.VerifyEmail(ctx, first)
	assert.ErrorIs(t, err, common.ErrTokenUsed)

	_, err = h.users.VerifyEmail(ctx, second)
	require.NoError(t, err)

	err = h.users.ResendVerification(ctx, u.ID)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, MsgAlreadyVerified, ve.Message)
}

func TestMagicLink(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "ann@test.com")

	require.NoError(t, h.users.RequestMagicLink(ctx, "ann@test.com"))
	tok := h.lastToken(t, "ann@test.com", mailbox.SubjectMagicLink, smail.RouteMagicLink)

	_, err := h.users.VerifyEmail(ctx, tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken, "a magic-link token cannot verify email")

	u, err := h.users.VerifyMagicLink(ctx, tok)
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)

	_, err = h.users.VerifyMagicLink(ctx, tok)
	assert.ErrorIs(t, err, common.ErrTokenUsed)
}

func TestMagicLinkAndForgot_SilentForUnknownEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.users.RequestMagicLink(ctx, "ghost@test.com"))
	require.NoError(t, h.users.ForgotPassword(ctx, "ghost@test.com"))
	assert.Empty(t, h.mailer.Messages().Messages)
}

func TestForgotPassword_RateLimited(t *testing.T) {
	h := newHarness(t)
	h.cfg.RateLimitPerMinute = 2
	h.users = NewUserService(h.rm, h.tokens, h.mailer, h.cfg, logging.Discard())
	ctx := context.Background()

	require.NoError(t, h.users.ForgotPassword(ctx, "ghost@test.com"))
	require.NoError(t, h.users.ForgotPassword(ctx, "GHOST@test.com"))
	assert.ErrorIs(t, h.users.ForgotPassword(ctx, "ghost@test.com"), ErrRateLimited)
}

func TestResetPassword(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.register(t, "ann@test.com")
	oldSession, _, err := h.sessions.Issue(ctx, u)
	require.NoError(t, err)

	require.NoError(t, h.users.ForgotPassword(ctx, "ann@test.com"))
	tok := h.lastToken(t, "ann@test.com", mailbox.SubjectResetPassword, smail.RouteResetPassword)

	_, err = h.users.ResetPassword(ctx, tok, "short")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	updated, err := h.users.ResetPassword(ctx, tok, "brand-new-pass")
	require.NoError(t, err, "a rejected password must not burn the token")
	assert.True(t, updated.EmailVerified)
	assert.Equal(t, u.SessionEpoch+1, updated.SessionEpoch)

	_, err = h.users.Login(ctx, "ann@test.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = h.users.Login(ctx, "ann@test.com", "brand-new-pass")
	assert.NoError(t, err)

	_, err = h.users.ResetPassword(ctx, tok, "another-pass")
	assert.ErrorIs(t, err, common.ErrTokenUsed)

	_, _, err = h.sessions.Authenticate(ctx, oldSession)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestChangePassword(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.register(t, "ann@test.com")

	_, err := h.users.ChangePassword(ctx, u.ID, "wrong-pass", "new-password")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = h.users.ChangePassword(ctx, u.ID, "password1", "password1")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, MsgSamePassword, ve.Message)

	updated, err := h.users.ChangePassword(ctx, u.ID, "password1", "new-password")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.SessionEpoch)

	_, err = h.users.Login(ctx, "ann@test.com", "new-password")
	assert.NoError(t, err)
}

func TestSessions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.register(t, "ann@test.com")

	tok, claims, err := h.sessions.Issue(ctx, u)
	require.NoError(t, err)

	got, gotClaims, err := h.sessions.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, claims.ID, gotClaims.ID)

	other, _, err := h.sessions.Issue(ctx, u)
	require.NoError(t, err)

	h.sessions.Revoke(gotClaims)
	_, _, err = h.sessions.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, _, err = h.sessions.Authenticate(ctx, other)
	assert.NoError(t, err, "revoking one session leaves the others")

	_, _, err = h.sessions.Authenticate(ctx, "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, _, err = h.sessions.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestSessions_Sweep(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.register(t, "ann@test.com")

	_, claims, err := h.sessions.Issue(ctx, u)
	require.NoError(t, err)
	h.sessions.Revoke(claims)
	assert.Equal(t, 0, h.sessions.Sweep())

	h.sessions.now = func() time.Time { return time.Now().Add(h.sessions.TTL() + time.Minute) }
	assert.Equal(t, 1, h.sessions.Sweep())
}

func TestTokens_Expiry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.register(t, "ann@test.com")

	tok, err := h.tokens.Issue(ctx, u.ID, models.PurposeMagicLink)
	require.NoError(t, err)

	h.tokens.now = func() time.Time { return time.Now().Add(h.cfg.MagicLinkTTL.Duration + time.Second) }
	_, err = h.tokens.Redeem(ctx, tok, models.PurposeMagicLink)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	n, err := h.tokens.Sweep(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	_, err = h.tokens.Issue(ctx, u.ID, "bogus")
	assert.Error(t, err)
}

func TestNotes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.notes.Create(ctx, "u1", "  ", "body")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, MsgTitleLength, ve.Message)

	_, err = h.notes.Create(ctx, "u1", "t", strings.Repeat("é", models.MaxBodyLength+1))
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, MsgBodyLength, ve.Message)

	n, err := h.notes.Create(ctx, "u1", strings.Repeat("é", models.MaxTitleLength), " body ")
	require.NoError(t, err)
	assert.Equal(t, "body", n.Body)

	_, err = h.notes.Update(ctx, "u2", n.ID, "x", "y")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	upd, err := h.notes.Update(ctx, "u1", n.ID, "x", "y")
	require.NoError(t, err)
	assert.Equal(t, "x", upd.Title)

	list, err := h.notes.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, h.notes.Delete(ctx, "u1", n.ID))
	assert.ErrorIs(t, h.notes.Delete(ctx, "u1", n.ID), common.ErrorNotFound)
}
